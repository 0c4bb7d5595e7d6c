package doctor

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"github.com/xcawolfe-amzn/procclean/internal/constants"
	"github.com/xcawolfe-amzn/procclean/internal/kill"
)

// journalSizeWarnBytes is where the journal stops being "history" and
// starts being a disk hog worth mentioning.
const journalSizeWarnBytes = 5 << 20

// JournalCheck verifies the kill journal parses and is not wedged. A
// corrupt journal blocks history for every future kill, so --fix
// archives it and lets a fresh one start.
type JournalCheck struct {
	FixableCheck
	dirForTest string // Injectable for testing; empty uses the default state dir

	corruptPath string // set by Run when the journal fails to parse
}

// NewJournalCheck creates the kill journal check.
func NewJournalCheck() *JournalCheck {
	return &JournalCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "kill-journal",
				CheckDescription: "Check that the kill journal parses",
				CheckCategory:    CategoryCleanup,
			},
		},
	}
}

// Run loads the journal and probes its lock.
func (c *JournalCheck) Run(ctx *CheckContext) *CheckResult {
	c.corruptPath = ""

	dir := c.dirForTest
	if dir == "" {
		var err error
		dir, err = kill.StateDir()
		if err != nil {
			return &CheckResult{
				Name:    c.Name(),
				Status:  StatusError,
				Message: fmt.Sprintf("cannot resolve state directory: %v", err),
			}
		}
	}

	journal := kill.NewJournal(dir)
	path := journal.Path()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusOK,
			Message: "no journal yet (no kills recorded)",
		}
	}
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("cannot stat %s: %v", path, err),
		}
	}

	state, err := journal.Load()
	if err != nil {
		c.corruptPath = path
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("journal unreadable: %v", err),
			Details: []string{path},
			FixHint: "Run 'procclean doctor --fix' to archive the corrupt journal and start fresh",
		}
	}

	fl := flock.New(path + constants.LockSuffix)
	if locked, err := fl.TryLock(); err == nil {
		if !locked {
			return &CheckResult{
				Name:    c.Name(),
				Status:  StatusWarning,
				Message: "journal locked by another procclean process",
				Details: []string{"a concurrent kill is writing history right now"},
			}
		}
		fl.Unlock()
	}

	if info.Size() > journalSizeWarnBytes {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("journal large (%.1f MB, %d batches)", float64(info.Size())/(1024*1024), len(state.Batches)),
			Details: []string{path},
			FixHint: fmt.Sprintf("delete %s to start history over", path),
		}
	}

	result := &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%d batch(es) recorded", len(state.Batches)),
	}
	if n := len(state.Batches); n > 0 {
		last := state.Batches[n-1]
		result.Details = []string{fmt.Sprintf("last kill %s", last.At.Local().Format("2006-01-02 15:04:05"))}
	}
	return result
}

// Fix archives a corrupt journal so a fresh one can start.
func (c *JournalCheck) Fix(ctx *CheckContext) error {
	if c.corruptPath == "" {
		return nil
	}
	return os.Rename(c.corruptPath, c.corruptPath+".corrupt")
}
