package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xcawolfe-amzn/procclean/internal/view"
)

func queryFor(t *testing.T, target string) (Query, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return parseQuery(req)
}

func TestParseQueryDefaults(t *testing.T) {
	q, err := queryFor(t, "/api/processes")
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}
	if q.View != view.ViewAll {
		t.Errorf("View = %v, want all", q.View)
	}
	if q.Sort != view.SortMemory {
		t.Errorf("Sort = %v, want memory", q.Sort)
	}
	if q.Cwd != "" || q.Reverse {
		t.Errorf("q = %+v, want empty cwd and descending order", q)
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		want      Query
		wantErr   bool
		errSubstr string
	}{
		{
			name:   "named view",
			target: "/api/processes?view=high-memory",
			want:   Query{View: view.ViewHighMemory, Sort: view.SortMemory},
		},
		{
			name:   "explicit all view",
			target: "/api/processes?view=all",
			want:   Query{View: view.ViewAll, Sort: view.SortMemory},
		},
		{
			name:   "sort alias",
			target: "/api/processes?sort=rss",
			want:   Query{View: view.ViewAll, Sort: view.SortMemory},
		},
		{
			name:   "sort by name",
			target: "/api/processes?sort=name",
			want:   Query{View: view.ViewAll, Sort: view.SortName},
		},
		{
			name:   "cwd filter",
			target: "/api/processes?cwd=%2Fhome%2Fdev",
			want:   Query{View: view.ViewAll, Sort: view.SortMemory, Cwd: "/home/dev"},
		},
		{
			name:   "ascending numeric form",
			target: "/api/processes?ascending=1",
			want:   Query{View: view.ViewAll, Sort: view.SortMemory, Reverse: true},
		},
		{
			name:      "unknown view",
			target:    "/api/processes?view=zombies",
			wantErr:   true,
			errSubstr: "unknown filter",
		},
		{
			name:      "unknown sort",
			target:    "/api/processes?sort=size",
			wantErr:   true,
			errSubstr: "unknown sort key",
		},
		{
			name:      "sort is strict where the CLI is forgiving",
			target:    "/api/processes?sort=memry",
			wantErr:   true,
			errSubstr: "unknown sort key",
		},
		{
			name:      "cwd with control character",
			target:    "/api/processes?cwd=%2Fhome%00evil",
			wantErr:   true,
			errSubstr: "invalid cwd",
		},
		{
			name:      "bad ascending value",
			target:    "/api/processes?ascending=maybe",
			wantErr:   true,
			errSubstr: "invalid ascending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := queryFor(t, tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseQuery(%q) expected error containing %q, got nil", tt.target, tt.errSubstr)
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("parseQuery(%q) error = %q, want error containing %q", tt.target, err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseQuery(%q) unexpected error: %v", tt.target, err)
			}
			if q != tt.want {
				t.Errorf("parseQuery(%q) = %+v, want %+v", tt.target, q, tt.want)
			}
		})
	}
}

func TestValidCwdFilter(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/home/dev", true},
		{"~/projects", true},
		{"relative/path", true},
		{"with spaces/ok", true},
		{"", true},
		{"tab\there", false},
		{"newline\nhere", false},
		{"null\x00byte", false},
		{strings.Repeat("a", maxCwdFilterLen), true},
		{strings.Repeat("a", maxCwdFilterLen+1), false},
	}
	for _, tt := range tests {
		if got := validCwdFilter(tt.in); got != tt.want {
			t.Errorf("validCwdFilter(%q) = %v, want %v", truncate(tt.in, 20), got, tt.want)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
