package doctor

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestProcfsCheck_Metadata(t *testing.T) {
	check := NewProcfsCheck()
	if check.Name() != "procfs-readable" {
		t.Errorf("Name() = %q", check.Name())
	}
	if check.Category() != CategoryInfrastructure {
		t.Errorf("Category() = %q", check.Category())
	}
	if check.CanFix() {
		t.Error("CanFix() should be false; nothing to fix about a missing procfs")
	}
}

// fakeProcRoot builds a minimal procfs lookalike with n process dirs.
func fakeProcRoot(t *testing.T, n int) string {
	t.Helper()
	root := t.TempDir()
	for i := 0; i < n; i++ {
		if err := os.MkdirAll(filepath.Join(root, strconv.Itoa(100+i)), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(root, "self"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "self", "status"), []byte("Name:\tprocclean\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestProcfsCheck_CountsProcesses(t *testing.T) {
	check := NewProcfsCheck()
	check.procRootForTest = fakeProcRoot(t, 3)

	result := check.Run(&CheckContext{})
	if result.Status != StatusOK {
		t.Fatalf("Status = %v: %s", result.Status, result.Message)
	}
	if !strings.Contains(result.Message, "3 processes visible") {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestProcfsCheck_MissingRoot(t *testing.T) {
	check := NewProcfsCheck()
	check.procRootForTest = filepath.Join(t.TempDir(), "nope")

	result := check.Run(&CheckContext{})
	if result.Status != StatusError {
		t.Errorf("Status = %v, want error for missing root", result.Status)
	}
}

func TestProcfsCheck_EmptyRoot(t *testing.T) {
	check := NewProcfsCheck()
	check.procRootForTest = t.TempDir()

	result := check.Run(&CheckContext{})
	if result.Status != StatusError {
		t.Errorf("Status = %v, want error with no process dirs", result.Status)
	}
}

func TestProcfsCheck_UnreadableSelf(t *testing.T) {
	check := NewProcfsCheck()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "4242"), 0755); err != nil {
		t.Fatal(err)
	}
	check.procRootForTest = root

	result := check.Run(&CheckContext{})
	if result.Status != StatusWarning {
		t.Errorf("Status = %v, want warning when self/status is unreadable", result.Status)
	}
}

func TestIsAllDigits(t *testing.T) {
	cases := map[string]bool{
		"123":  true,
		"1":    true,
		"":     false,
		"12a":  false,
		"self": false,
	}
	for in, want := range cases {
		if got := isAllDigits(in); got != want {
			t.Errorf("isAllDigits(%q) = %v, want %v", in, got, want)
		}
	}
}
