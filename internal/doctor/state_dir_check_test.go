package doctor

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestStateDirCheck_Metadata(t *testing.T) {
	check := NewStateDirCheck()
	if check.Name() != "state-dir" {
		t.Errorf("Name() = %q", check.Name())
	}
	if !check.CanFix() {
		t.Error("CanFix() should be true; the fix is a mkdir")
	}
}

func TestStateDirCheck_Writable(t *testing.T) {
	check := NewStateDirCheck()
	check.dirForTest = t.TempDir()

	result := check.Run(&CheckContext{})
	if result.Status != StatusOK {
		t.Errorf("Status = %v: %s", result.Status, result.Message)
	}
}

func TestStateDirCheck_MissingThenFixed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state", "procclean")

	check := NewStateDirCheck()
	check.dirForTest = dir

	result := check.Run(&CheckContext{})
	if result.Status != StatusWarning {
		t.Fatalf("Status = %v, want warning for a missing dir", result.Status)
	}
	if result.FixHint == "" {
		t.Error("missing dir should carry a fix hint")
	}

	if err := check.Fix(&CheckContext{}); err != nil {
		t.Fatalf("Fix failed: %v", err)
	}

	rerun := check.Run(&CheckContext{})
	if rerun.Status != StatusOK {
		t.Errorf("post-fix Status = %v: %s", rerun.Status, rerun.Message)
	}
}

func TestStateDirCheck_PathIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	if err := os.WriteFile(path, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	check := NewStateDirCheck()
	check.dirForTest = path

	result := check.Run(&CheckContext{})
	if result.Status != StatusError {
		t.Errorf("Status = %v, want error when the path is a file", result.Status)
	}
}

func TestStateDirCheck_FixThroughDoctor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	check := NewStateDirCheck()
	check.dirForTest = dir

	d := NewDoctor()
	d.Register(check)

	report := d.FixStreaming(&CheckContext{}, io.Discard, 0)
	if report.Summary.Fixed != 1 {
		t.Errorf("Summary.Fixed = %d, want 1", report.Summary.Fixed)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("state dir not created by fix: %v", err)
	}
}
