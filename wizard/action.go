package wizard

import (
	"sync"

	"github.com/pkg/errors"
)

// ActionStatus is the visible state of a step's asynchronous action.
type ActionStatus string

// OTP-family statuses: idle -> sent -> verifying -> verified | failed.
// failed returns to sent on resend, or to idle on cancel.
const (
	StatusIdle      ActionStatus = "idle"
	StatusSent      ActionStatus = "sent"
	StatusVerifying ActionStatus = "verifying"
	StatusVerified  ActionStatus = "verified"
	StatusFailed    ActionStatus = "failed"
)

// Check-family statuses: pending -> checking -> accepted | rejected | error.
// rejected and error return to pending on retry; each attempt's outcome is an
// independent draw, so retries are not guaranteed to converge.
const (
	StatusPendingCheck ActionStatus = "pending"
	StatusChecking     ActionStatus = "checking"
	StatusAccepted     ActionStatus = "accepted"
	StatusRejected     ActionStatus = "rejected"
	StatusError        ActionStatus = "error"
)

// OTPAction drives an OTP verification step. Every Send or Resend bumps the
// epoch; a completion carrying a stale epoch is discarded on arrival, so a
// response from before the latest resend can never overwrite fresh state.
type OTPAction struct {
	mu     sync.Mutex
	epoch  uint64
	status ActionStatus
	reason string
}

func NewOTPAction() *OTPAction {
	return &OTPAction{status: StatusIdle}
}

// Status returns the current status and failure reason, if any.
func (a *OTPAction) Status() (ActionStatus, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status, a.reason
}

// Send transitions idle|failed -> sent and returns the new epoch. From failed
// this is the resend affordance: the backing challenge is fresh and attempts
// reset with it.
func (a *OTPAction) Send() (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != StatusIdle && a.status != StatusFailed && a.status != StatusSent {
		return 0, errors.Errorf("cannot send OTP while %s", a.status)
	}
	a.epoch++
	a.status = StatusSent
	a.reason = ""
	return a.epoch, nil
}

// BeginVerify transitions sent -> verifying.
func (a *OTPAction) BeginVerify() (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != StatusSent {
		return 0, errors.Errorf("cannot verify while %s", a.status)
	}
	a.status = StatusVerifying
	return a.epoch, nil
}

// CompleteVerify resolves a verification begun under the given epoch. It
// reports false and changes nothing when the epoch is stale.
func (a *OTPAction) CompleteVerify(epoch uint64, ok bool, reason string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch || a.status != StatusVerifying {
		return false
	}
	if ok {
		a.status = StatusVerified
		a.reason = ""
	} else {
		a.status = StatusFailed
		a.reason = reason
	}
	return true
}

// Cancel transitions failed -> idle, abandoning the challenge.
func (a *OTPAction) Cancel() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != StatusFailed {
		return errors.Errorf("cannot cancel while %s", a.status)
	}
	a.epoch++
	a.status = StatusIdle
	a.reason = ""
	return nil
}

// CheckAction drives a scored verification step (document authenticity, face
// match, territory). Same epoch discipline as OTPAction.
type CheckAction struct {
	mu     sync.Mutex
	epoch  uint64
	status ActionStatus
	reason string
}

func NewCheckAction() *CheckAction {
	return &CheckAction{status: StatusPendingCheck}
}

func (a *CheckAction) Status() (ActionStatus, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status, a.reason
}

// Begin transitions pending -> checking and returns the epoch for the
// in-flight attempt.
func (a *CheckAction) Begin() (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != StatusPendingCheck {
		return 0, errors.Errorf("cannot start check while %s", a.status)
	}
	a.epoch++
	a.status = StatusChecking
	return a.epoch, nil
}

// Complete resolves the attempt begun under epoch to accepted, rejected or
// error. Stale completions are discarded.
func (a *CheckAction) Complete(epoch uint64, outcome ActionStatus, reason string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch || a.status != StatusChecking {
		return false
	}
	switch outcome {
	case StatusAccepted, StatusRejected, StatusError:
	default:
		return false
	}
	a.status = outcome
	a.reason = reason
	return true
}

// Retry transitions rejected|error -> pending. The next attempt draws its
// own outcome, independent of this one.
func (a *CheckAction) Retry() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != StatusRejected && a.status != StatusError {
		return errors.Errorf("cannot retry while %s", a.status)
	}
	a.epoch++
	a.status = StatusPendingCheck
	a.reason = ""
	return nil
}
