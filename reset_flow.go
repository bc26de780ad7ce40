package chatclient

import (
	"context"
	"sync"
)

// ResetState defines a public type used by chatclient APIs.
//
// ResetState instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResetState uint8

const (
	// StateRequesting is an exported constant or variable used by the chat client.
	StateRequesting ResetState = iota
	// StateAwaitingCode is an exported constant or variable used by the chat client.
	StateAwaitingCode
	// StateResetting is an exported constant or variable used by the chat client.
	StateResetting
	// StateComplete is an exported constant or variable used by the chat client.
	StateComplete
)

// String describes the string operation and its observable behavior.
func (s ResetState) String() string {
	switch s {
	case StateRequesting:
		return "requesting"
	case StateAwaitingCode:
		return "awaiting_code"
	case StateResetting:
		return "resetting"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ResetFlow drives the three-step OTP password recovery protocol:
// request a code, optionally verify it, then reset the password.
//
// Transitions are strictly forward. A failed step leaves the state in
// place; [ResetFlow.Restart] is the only way back. Once Complete, the
// challenge is spent and the caller returns to the login entry point.
type ResetFlow struct {
	client *Client

	mu     sync.Mutex
	state  ResetState
	gen    uint64
	email  string
	devOTP string
}

// NewResetFlow starts a password recovery flow in the Requesting state.
func (c *Client) NewResetFlow() *ResetFlow {
	return &ResetFlow{client: c, state: StateRequesting}
}

// State returns the current flow state.
func (f *ResetFlow) State() ResetState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Email returns the address the flow was started for.
func (f *ResetFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// DevOTP returns the code echoed by non-production deployments, empty
// otherwise.
func (f *ResetFlow) DevOTP() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devOTP
}

// Restart abandons the current challenge and returns the flow to the
// Requesting state. This is the explicit user-initiated reset; no transition
// ever moves backwards on its own. A step still in flight when Restart runs
// finishes with [ErrResetAbandoned] instead of advancing the flow.
func (f *ResetFlow) Restart() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateRequesting
	f.gen++
	f.email = ""
	f.devOTP = ""
}

// advance re-checks the guard after the remote call. The generation bumps
// on Restart, so an in-flight step cannot write into an abandoned
// challenge; a state no longer in from means a concurrent step won the
// transition.
func (f *ResetFlow) advance(gen uint64, from []ResetState, to ResetState, apply func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gen != gen {
		return ErrResetAbandoned
	}
	for _, s := range from {
		if f.state == s {
			f.state = to
			if apply != nil {
				apply()
			}
			return nil
		}
	}
	return ErrResetStateInvalid
}

// RequestCode moves Requesting → AwaitingCode by asking the remote API to
// generate a one-time code for email. On failure the flow stays at
// Requesting with the error surfaced.
func (f *ResetFlow) RequestCode(ctx context.Context, email string) (message string, err error) {
	f.mu.Lock()
	if f.state != StateRequesting {
		f.mu.Unlock()
		return "", ErrResetStateInvalid
	}
	gen := f.gen
	f.mu.Unlock()

	receipt, err := f.client.RequestPasswordReset(ctx, email)
	if err != nil {
		return "", err
	}

	err = f.advance(gen, []ResetState{StateRequesting}, StateAwaitingCode, func() {
		f.email = email
		f.devOTP = receipt.OTP
	})
	if err != nil {
		return "", err
	}
	return receipt.Message, nil
}

// VerifyCode moves AwaitingCode → Resetting when the code checks out, and
// stays at AwaitingCode on a wrong or expired code.
func (f *ResetFlow) VerifyCode(ctx context.Context, otp string) error {
	f.mu.Lock()
	if f.state != StateAwaitingCode {
		f.mu.Unlock()
		return ErrResetStateInvalid
	}
	gen := f.gen
	email := f.email
	f.mu.Unlock()

	if err := f.client.VerifyResetCode(ctx, email, otp); err != nil {
		return err
	}

	return f.advance(gen, []ResetState{StateAwaitingCode}, StateResetting, nil)
}

// ResetPassword moves to Complete on success, discarding the challenge.
// Deployments that merge verification into the reset call may invoke it
// straight from AwaitingCode. On failure (code expired between verify and
// reset, or the new credential is rejected) the state holds, allowing a
// retry with the same code until its server-side expiry.
func (f *ResetFlow) ResetPassword(ctx context.Context, otp, newPassword string) (message string, err error) {
	f.mu.Lock()
	if f.state != StateAwaitingCode && f.state != StateResetting {
		f.mu.Unlock()
		return "", ErrResetStateInvalid
	}
	gen := f.gen
	email := f.email
	f.mu.Unlock()

	message, err = f.client.ConfirmPasswordReset(ctx, email, otp, newPassword)
	if err != nil {
		return "", err
	}

	err = f.advance(gen, []ResetState{StateAwaitingCode, StateResetting}, StateComplete, func() {
		f.devOTP = ""
	})
	if err != nil {
		return "", err
	}
	return message, nil
}
