// Package kill delivers termination signals to processes and reports the
// outcome of each attempt. Delivery is fire-and-forget: one signal per
// PID, no waiting, no escalation.
package kill

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// Outcome classifies the result of a single signal delivery.
type Outcome string

const (
	// OutcomeKilled means the signal was delivered.
	OutcomeKilled Outcome = "killed"
	// OutcomeNotFound means the process was gone before the signal landed.
	OutcomeNotFound Outcome = "not-found"
	// OutcomePermissionDenied means the process belongs to another user.
	OutcomePermissionDenied Outcome = "permission-denied"
	// OutcomeFailed covers everything else.
	OutcomeFailed Outcome = "failed"
)

// Result records what happened to one PID.
type Result struct {
	PID     int     `json:"pid"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// Success reports whether the signal was delivered.
func (r Result) Success() bool {
	return r.Outcome == OutcomeKilled
}

func (r Result) String() string {
	if r.Success() {
		return fmt.Sprintf("Killed process %d: %s", r.PID, r.Message)
	}
	return fmt.Sprintf("Failed to kill process %d: %s", r.PID, r.Message)
}

// Request describes one kill batch.
type Request struct {
	PIDs  []int
	Force bool
}

// Signal returns the signal the request delivers.
func (r Request) Signal() syscall.Signal {
	if r.Force {
		return syscall.SIGKILL
	}
	return syscall.SIGTERM
}

// Report aggregates the per-PID results of a batch.
type Report struct {
	Results   []Result `json:"results"`
	Succeeded int      `json:"succeeded"`
}

// SignalFunc delivers sig to pid.
type SignalFunc func(pid int, sig syscall.Signal) error

// Killer executes kill batches.
type Killer struct {
	signalForTest SignalFunc // Injectable for testing; nil sends real signals
}

// New creates a Killer that sends real signals.
func New() *Killer {
	return &Killer{}
}

// Run signals every PID in the request and returns the per-PID outcomes.
// PIDs that died between snapshot and signal come back as not-found;
// the caller decides whether that counts against it.
func (k *Killer) Run(req Request) Report {
	sig := req.Signal()
	rep := Report{Results: make([]Result, 0, len(req.PIDs))}
	for _, pid := range req.PIDs {
		res := k.killOne(pid, sig)
		if res.Success() {
			rep.Succeeded++
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}

func (k *Killer) killOne(pid int, sig syscall.Signal) Result {
	send := k.signalForTest
	if send == nil {
		send = sendSignal
	}

	err := send(pid, sig)
	switch {
	case err == nil:
		msg := "Terminated (SIGTERM)"
		if sig == syscall.SIGKILL {
			msg = "Force killed (SIGKILL)"
		}
		return Result{PID: pid, Outcome: OutcomeKilled, Message: msg}
	case errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH):
		return Result{PID: pid, Outcome: OutcomeNotFound, Message: "Process not found"}
	case errors.Is(err, syscall.EPERM):
		return Result{PID: pid, Outcome: OutcomePermissionDenied, Message: "Permission denied"}
	default:
		return Result{PID: pid, Outcome: OutcomeFailed, Message: fmt.Sprintf("Error: %v", err)}
	}
}

// sendSignal delivers sig to a live process.
func sendSignal(pid int, sig syscall.Signal) error {
	// On Unix, FindProcess always succeeds. Signal does the real work.
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(sig)
}

// Alive reports whether pid refers to a running process. Signal 0 checks
// existence without delivering anything; EPERM means the process exists
// but belongs to someone else.
func Alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
