package inspect

import (
	"github.com/xcawolfe-amzn/procclean/internal/proc"
)

// Confirm is the kill confirmation modal. It snapshots its targets at open
// time: the displayed list may refresh underneath it, but the batch that
// executes is exactly the one the operator was shown. While a Confirm is
// active no second kill can be initiated and quit is deferred.
type Confirm struct {
	Targets []proc.Process
	Force   bool
	Yes     bool // highlighted choice; starts on No
}

// NewConfirm opens a modal for the given targets. Returns nil when there
// is nothing to confirm.
func NewConfirm(targets []proc.Process, force bool) *Confirm {
	if len(targets) == 0 {
		return nil
	}
	snap := make([]proc.Process, len(targets))
	copy(snap, targets)
	return &Confirm{Targets: snap, Force: force}
}

// ToggleChoice flips between Yes and No.
func (c *Confirm) ToggleChoice() {
	c.Yes = !c.Yes
}

// SelectYes moves the highlight to Yes.
func (c *Confirm) SelectYes() {
	c.Yes = true
}

// SelectNo moves the highlight to No.
func (c *Confirm) SelectNo() {
	c.Yes = false
}

// Confirmed reports whether the highlighted choice is Yes.
func (c *Confirm) Confirmed() bool {
	return c.Yes
}

// PIDs returns the snapshot's target PIDs in preview order.
func (c *Confirm) PIDs() []int {
	pids := make([]int, len(c.Targets))
	for i, p := range c.Targets {
		pids[i] = p.PID
	}
	return pids
}

// TotalMB returns the memory the batch would free.
func (c *Confirm) TotalMB() float64 {
	var total float64
	for _, p := range c.Targets {
		total += p.RSSMB
	}
	return total
}
