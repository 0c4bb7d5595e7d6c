package proc

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/xcawolfe-amzn/procclean/internal/constants"
)

// clockTicks is the kernel clock tick rate used for cputime and start-time
// fields in /proc/<pid>/stat. Linux has reported 100 via sysconf(_SC_CLK_TCK)
// on every mainstream architecture for decades.
const clockTicks = 100.0

const bytesPerMB = 1024 * 1024

// Options configures a Collector.
type Options struct {
	// Root is the procfs mount point. Empty means DefaultRoot().
	Root string

	// MinMemoryMB drops processes below this RSS at collection time.
	// Zero keeps everything.
	MinMemoryMB float64
}

// DefaultRoot returns the procfs mount point: the PROCCLEAN_PROC
// environment override if set, otherwise /proc.
func DefaultRoot() string {
	if root := os.Getenv(constants.EnvProcRoot); root != "" {
		return root
	}
	return "/proc"
}

// Collector reads process snapshots from procfs.
//
// It keeps the previous snapshot's cputime samples so CPU percentages are
// instantaneous across refreshes: the first time a PID is seen its value is
// the lifetime average, afterwards it is usage over the sampling interval.
// A Collector is not safe for concurrent use; each consumer owns its own.
type Collector struct {
	root        string
	minMemoryMB float64
	pageSize    float64
	bootTime    float64

	prevTicks map[int]float64
	prevAt    time.Time

	usernames map[uint32]string
}

// NewCollector creates a Collector for the given options.
func NewCollector(opts Options) *Collector {
	root := opts.Root
	if root == "" {
		root = DefaultRoot()
	}
	c := &Collector{
		root:        root,
		minMemoryMB: opts.MinMemoryMB,
		pageSize:    float64(os.Getpagesize()),
		usernames:   make(map[uint32]string),
	}
	c.bootTime = readBootTime(root)
	return c
}

// statFacts are the fields parsed from /proc/<pid>/stat.
type statFacts struct {
	name       string
	state      byte
	ppid       int
	cpuTicks   float64
	startTicks float64
	rssPages   float64
}

// Snapshot enumerates the process table and returns one Process per readable
// entry. A PID that vanishes mid-read is skipped. The returned slice is in
// procfs encounter order; callers sort it themselves.
func (c *Collector) Snapshot() ([]Process, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.root, err)
	}

	now := time.Now()
	elapsed := now.Sub(c.prevAt).Seconds()

	// First pass: stat facts for every PID, so parent names can be
	// resolved from the same snapshot.
	facts := make(map[int]statFacts, len(entries))
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(c.root, e.Name(), "stat"))
		if err != nil {
			// Process exited between ReadDir and here.
			continue
		}
		sf, err := parseStat(string(raw))
		if err != nil {
			continue
		}
		facts[pid] = sf
		pids = append(pids, pid)
	}

	nextTicks := make(map[int]float64, len(facts))
	processes := make([]Process, 0, len(facts))
	for _, pid := range pids {
		sf := facts[pid]
		nextTicks[pid] = sf.cpuTicks

		rssMB := sf.rssPages * c.pageSize / bytesPerMB
		if c.minMemoryMB > 0 && rssMB < c.minMemoryMB {
			continue
		}

		dir := filepath.Join(c.root, strconv.Itoa(pid))
		createTime := c.bootTime + sf.startTicks/clockTicks

		parentName := "?"
		if psf, ok := facts[sf.ppid]; ok {
			parentName = psf.name
		}

		processes = append(processes, Process{
			PID:        pid,
			Name:       sf.name,
			Cmdline:    readCmdline(dir),
			Cwd:        readCwd(dir),
			PPID:       sf.ppid,
			ParentName: parentName,
			RSSMB:      rssMB,
			CPUPercent: c.cpuPercent(pid, sf, createTime, now, elapsed),
			Username:   c.username(dir),
			CreateTime: createTime,
			IsOrphan:   sf.ppid == 1,
			InTmux:     readInTmux(dir),
			Status:     statusName(sf.state),
			ExeDeleted: readExeDeleted(dir),
		})
	}

	c.prevTicks = nextTicks
	c.prevAt = now
	return processes, nil
}

// cpuPercent computes the CPU usage for one process. With a previous sample
// it is the usage over the sampling interval; otherwise the lifetime average.
func (c *Collector) cpuPercent(pid int, sf statFacts, createTime float64, now time.Time, elapsed float64) float64 {
	if prev, ok := c.prevTicks[pid]; ok && elapsed > 0 {
		pct := (sf.cpuTicks - prev) / clockTicks / elapsed * 100
		if pct < 0 {
			return 0
		}
		return pct
	}

	age := float64(now.Unix()) - createTime
	if age <= 0 {
		return 0
	}
	pct := sf.cpuTicks / clockTicks / age * 100
	if pct < 0 {
		return 0
	}
	return pct
}

// parseStat extracts the fields procclean needs from a /proc/<pid>/stat line.
// The comm field is enclosed in parens and may itself contain parens or
// spaces, so the split anchors on the last ')'.
func parseStat(raw string) (statFacts, error) {
	open := strings.Index(raw, "(")
	close := strings.LastIndex(raw, ")")
	if open < 0 || close < 0 || close+2 > len(raw) {
		return statFacts{}, fmt.Errorf("malformed stat line")
	}

	name := raw[open+1 : close]
	fields := strings.Fields(raw[close+2:])
	// Fields are zero-indexed from the state letter: state(0) ppid(1)
	// utime(11) stime(12) starttime(19) rss(21).
	if len(fields) < 22 {
		return statFacts{}, fmt.Errorf("stat line has %d fields", len(fields))
	}

	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return statFacts{}, fmt.Errorf("parsing ppid: %w", err)
	}
	utime, _ := strconv.ParseFloat(fields[11], 64)
	stime, _ := strconv.ParseFloat(fields[12], 64)
	startTicks, _ := strconv.ParseFloat(fields[19], 64)
	rssPages, _ := strconv.ParseFloat(fields[21], 64)

	return statFacts{
		name:       name,
		state:      fields[0][0],
		ppid:       ppid,
		cpuTicks:   utime + stime,
		startTicks: startTicks,
		rssPages:   rssPages,
	}, nil
}

// readCmdline returns the space-joined command line, or "" when unreadable.
func readCmdline(dir string) string {
	raw, err := os.ReadFile(filepath.Join(dir, "cmdline"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(raw), "\x00", " "))
}

// readCwd returns the working directory, or "?" when unreadable.
func readCwd(dir string) string {
	cwd, err := os.Readlink(filepath.Join(dir, "cwd"))
	if err != nil {
		return "?"
	}
	return cwd
}

// readInTmux reports whether the process environment carries a TMUX variable.
// An unreadable environ (typically another user's process) reads as false.
func readInTmux(dir string) bool {
	raw, err := os.ReadFile(filepath.Join(dir, "environ"))
	if err != nil {
		return false
	}
	return environHasTmux(string(raw))
}

// environHasTmux scans a NUL-separated environment block for a TMUX entry.
func environHasTmux(environ string) bool {
	for _, entry := range strings.Split(environ, "\x00") {
		if strings.HasPrefix(entry, "TMUX=") {
			return true
		}
	}
	return false
}

// readExeDeleted reports whether the executable backing the process has been
// deleted or replaced. The kernel appends " (deleted)" to the exe link target.
func readExeDeleted(dir string) bool {
	target, err := os.Readlink(filepath.Join(dir, "exe"))
	if err != nil {
		return false
	}
	return strings.Contains(target, "(deleted)")
}

// username resolves the owner of a proc directory, caching lookups per UID.
// Unresolvable UIDs fall back to the numeric string, then "?".
func (c *Collector) username(dir string) string {
	info, err := os.Stat(dir)
	if err != nil {
		return "?"
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "?"
	}

	if name, ok := c.usernames[st.Uid]; ok {
		return name
	}
	name := strconv.FormatUint(uint64(st.Uid), 10)
	if u, err := user.LookupId(name); err == nil && u.Username != "" {
		name = u.Username
	}
	c.usernames[st.Uid] = name
	return name
}

// readBootTime parses the btime line from /proc/stat. Boot time anchors the
// per-process start ticks to wall-clock create times. Falls back to now on
// failure, which skews create times but keeps snapshots usable.
func readBootTime(root string) float64 {
	f, err := os.Open(filepath.Join(root, "stat"))
	if err != nil {
		return float64(time.Now().Unix())
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "btime") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if sec, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
					return float64(sec)
				}
			}
		}
	}
	return float64(time.Now().Unix())
}
