package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/xcawolfe-amzn/procclean/internal/view"
)

// maxCwdFilterLen bounds the cwd query parameter. PATH_MAX is 4096 on
// Linux and the filter is a substring of a path, so anything longer is
// garbage.
const maxCwdFilterLen = 4096

// parseQuery reads the shared table parameters from a request. Unknown
// view or sort values are an error, not a silent default: the API
// promises a 400 so a typo in a caller's script fails loudly.
func parseQuery(r *http.Request) (Query, error) {
	q := Query{View: view.ViewAll, Sort: view.SortMemory}
	params := r.URL.Query()

	if name := params.Get("view"); name != "" {
		v, err := view.ParseView(name)
		if err != nil {
			return Query{}, err
		}
		q.View = v
	}
	if name := params.Get("sort"); name != "" {
		if !view.ValidKey(name) {
			return Query{}, fmt.Errorf("unknown sort key %q", name)
		}
		q.Sort = view.ParseKey(name)
	}
	if cwd := params.Get("cwd"); cwd != "" {
		if !validCwdFilter(cwd) {
			return Query{}, fmt.Errorf("invalid cwd filter")
		}
		q.Cwd = cwd
	}
	if asc := params.Get("ascending"); asc != "" {
		val, err := strconv.ParseBool(asc)
		if err != nil {
			return Query{}, fmt.Errorf("invalid ascending value %q", asc)
		}
		q.Reverse = val
	}
	return q, nil
}

// validCwdFilter rejects control characters and absurd lengths. The
// filter is only ever compared against collected cwd strings, so this
// is about keeping junk out of logs and pages, not shell safety.
func validCwdFilter(s string) bool {
	if len(s) > maxCwdFilterLen {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
