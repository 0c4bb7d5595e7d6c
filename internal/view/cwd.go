package view

import (
	"path/filepath"
	"strings"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
	"github.com/xcawolfe-amzn/procclean/internal/util"
)

// FilterCwd returns the processes whose working directory matches pattern.
//
// A leading ~/ expands to the home directory first. A pattern containing
// * or ? is then treated as a glob against the raw cwd; a malformed glob
// degrades to literal prefix matching. Any other pattern is a prefix
// match with both sides normalized, so "~/project/" style inputs with
// trailing slashes or symlinked segments still line up.
func FilterCwd(procs []proc.Process, pattern string) []proc.Process {
	pattern = util.ExpandHome(strings.TrimSpace(pattern))

	if strings.ContainsAny(pattern, "*?") {
		// Validate once; filepath.Match fails the same way for every
		// candidate when the pattern itself is bad.
		if _, err := filepath.Match(pattern, ""); err == nil {
			out := make([]proc.Process, 0, len(procs))
			for _, p := range procs {
				if ok, _ := filepath.Match(pattern, p.Cwd); ok {
					out = append(out, p)
				}
			}
			return out
		}
	}

	prefix := normalizePath(pattern)
	// Processes sharing a cwd are common; memoize normalization per call.
	memo := make(map[string]string)
	out := make([]proc.Process, 0, len(procs))
	for _, p := range procs {
		normalized, ok := memo[p.Cwd]
		if !ok {
			normalized = normalizePath(p.Cwd)
			memo[p.Cwd] = normalized
		}
		if strings.HasPrefix(normalized, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// normalizePath trims trailing slashes and canonicalizes through the
// filesystem when the path exists, falling back to the literal input.
func normalizePath(path string) string {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return path
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return path
	}
	return resolved
}
