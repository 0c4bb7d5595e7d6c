package format

import (
	"strings"
	"testing"

	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		side ClipSide
		want string
	}{
		{"short unchanged", "abc", 10, ClipRight, "abc"},
		{"exact unchanged", "abcde", 5, ClipLeft, "abcde"},
		{"right keeps head", "abcdefghij", 8, ClipRight, "abcde..."},
		{"left keeps tail", "abcdefghij", 8, ClipLeft, "...fghij"},
		{"left for paths", "/home/user/projects/deep/dir", 15, ClipLeft, "...cts/deep/dir"},
		{"runes not bytes", "éééééééééé", 8, ClipRight, "ééééé..."},
		{"tiny max", "abcdef", 2, ClipRight, "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(tt.in, tt.max, tt.side); got != tt.want {
				t.Errorf("Clip(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestResolveDefaults(t *testing.T) {
	cols, err := Resolve(DefaultColumnKeys)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"PID", "Name", "RAM (MB)", "CPU%", "CWD", "PPID", "Status"}
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i, w := range want {
		if cols[i].Header != w {
			t.Errorf("column %d header = %q, want %q", i, cols[i].Header, w)
		}
	}
}

func TestResolveUnknownKey(t *testing.T) {
	_, err := Resolve([]string{"pid", "bogus"})
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
	if !strings.Contains(err.Error(), `"bogus"`) || !strings.Contains(err.Error(), "cmdline") {
		t.Errorf("error should name the bad key and the valid set: %v", err)
	}
}

func TestExtract(t *testing.T) {
	p := proc.Process{
		PID:        1234,
		Name:       "node",
		Cmdline:    "/usr/bin/node server.js",
		Cwd:        "/very/long/path/to/some/deeply/nested/project/dir",
		PPID:       1,
		ParentName: "init",
		RSSMB:      123.456,
		CPUPercent: 7.89,
		Username:   "alice",
		Status:     "sleeping",
		IsOrphan:   true,
	}

	byKey := map[string]ColumnSpec{}
	for _, c := range Columns {
		byKey[c.Key] = c
	}

	if got := byKey["pid"].Extract(p); got != "1234" {
		t.Errorf("pid = %q", got)
	}
	if got := byKey["rss_mb"].Extract(p); got != "123.5" {
		t.Errorf("rss_mb = %q", got)
	}
	if got := byKey["cpu_percent"].Extract(p); got != "7.9" {
		t.Errorf("cpu_percent = %q", got)
	}
	if got := byKey["status"].Extract(p); got != "sleeping [orphan]" {
		t.Errorf("status = %q", got)
	}

	cwd := byKey["cwd"].Extract(p)
	if len([]rune(cwd)) > 35 || !strings.HasPrefix(cwd, "...") {
		t.Errorf("cwd not left-clipped: %q", cwd)
	}
	if !strings.HasSuffix(cwd, "project/dir") {
		t.Errorf("left clip should keep the tail: %q", cwd)
	}
}
