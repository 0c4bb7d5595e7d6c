package kill

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/xcawolfe-amzn/procclean/internal/constants"
)

// journalVersion is bumped when the on-disk shape changes.
const journalVersion = 1

// maxBatches bounds journal growth. Oldest batches are dropped first.
const maxBatches = 500

// Batch is one executed kill request with its outcomes.
type Batch struct {
	ID        string    `json:"id"`
	At        time.Time `json:"at"`
	Force     bool      `json:"force"`
	Succeeded int       `json:"succeeded"`
	Results   []Result  `json:"results"`
}

// State is the on-disk journal shape.
type State struct {
	Version int     `json:"version"`
	Batches []Batch `json:"batches"`
}

// Journal persists kill batches to a JSON file with crash-safe atomic
// writes and file-level locking.
type Journal struct {
	dir string
}

// NewJournal creates a journal rooted at dir.
func NewJournal(dir string) *Journal {
	return &Journal{dir: dir}
}

// StateDir resolves the procclean state directory, honoring
// XDG_STATE_HOME.
func StateDir() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", constants.AppDirName), nil
}

// DefaultJournal creates a journal in the user state directory.
func DefaultJournal() (*Journal, error) {
	dir, err := StateDir()
	if err != nil {
		return nil, err
	}
	return NewJournal(dir), nil
}

// Path returns the path to journal.json.
func (j *Journal) Path() string {
	return filepath.Join(j.dir, constants.JournalFileName)
}

// lockPath returns the path to the flock file for journal operations.
func (j *Journal) lockPath() string {
	return j.Path() + constants.LockSuffix
}

// lock acquires an exclusive file lock for journal operations.
// Caller must defer unlock().
func (j *Journal) lock() (func(), error) {
	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}
	fl := flock.New(j.lockPath())
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("acquiring journal lock: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

// Load reads the journal from disk. Returns an empty state if the file
// doesn't exist yet (first run).
func (j *Journal) Load() (*State, error) {
	data, err := os.ReadFile(j.Path())
	if os.IsNotExist(err) {
		return &State{Version: journalVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading kill journal: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing kill journal: %w", err)
	}
	return &state, nil
}

// Append records an executed batch and returns it. The journal is
// advisory: callers should warn on error, never abort the kill.
func (j *Journal) Append(force bool, rep Report) (Batch, error) {
	batch := Batch{
		ID:        uuid.New().String(),
		At:        time.Now().UTC(),
		Force:     force,
		Succeeded: rep.Succeeded,
		Results:   rep.Results,
	}

	unlock, err := j.lock()
	if err != nil {
		return batch, err
	}
	defer unlock()

	state, err := j.Load()
	if err != nil {
		return batch, err
	}

	state.Version = journalVersion
	state.Batches = append(state.Batches, batch)
	if len(state.Batches) > maxBatches {
		state.Batches = state.Batches[len(state.Batches)-maxBatches:]
	}

	return batch, j.write(state)
}

// Recent returns up to n batches, newest first.
func (j *Journal) Recent(n int) ([]Batch, error) {
	state, err := j.Load()
	if err != nil {
		return nil, err
	}

	batches := state.Batches
	if n > 0 && len(batches) > n {
		batches = batches[len(batches)-n:]
	}

	out := make([]Batch, 0, len(batches))
	for i := len(batches) - 1; i >= 0; i-- {
		out = append(out, batches[i])
	}
	return out, nil
}

// write persists state atomically: temp file in the same directory,
// fsync, then rename over the live file.
func (j *Journal) write(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding kill journal: %w", err)
	}

	tmpPath := j.Path() + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("writing kill journal: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing kill journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing kill journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing kill journal: %w", err)
	}

	if err := os.Rename(tmpPath, j.Path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing kill journal: %w", err)
	}
	return nil
}
