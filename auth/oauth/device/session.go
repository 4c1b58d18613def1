package device

import (
	"context"
	"fmt"

	"github.com/teamreflex/challonge-go/auth/oauth"
)

type State int

const (
	StateInit State = iota
	StateAwaitingUser
	StateAuthorized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateAwaitingUser:
		return "AWAITING_USER"
	case StateAuthorized:
		return "AUTHORIZED"
	case StateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Session records the progress of one device authorization. AUTHORIZED and FAILED are terminal.
// It has no timer: the caller still decides when to poll and when to give up.
// A Session must not be used from several goroutines at once.
type Session struct {
	flow  *Flow
	state State
	code  *DeviceCode
	token *oauth.AccessToken
	err   error
}

func (f *Flow) NewSession() *Session {
	return &Session{flow: f, state: StateInit}
}

func (s *Session) State() State {
	return s.state
}

// DeviceCode is nil until Start succeeds.
func (s *Session) DeviceCode() *DeviceCode {
	return s.code
}

// Token is set once the session is AUTHORIZED.
func (s *Session) Token() *oauth.AccessToken {
	return s.token
}

// Err is the failure that moved the session to FAILED.
func (s *Session) Err() error {
	return s.err
}

// Start requests the device code and moves INIT to AWAITING_USER.
func (s *Session) Start(ctx context.Context) (*DeviceCode, error) {
	if s.state != StateInit {
		return nil, fmt.Errorf("device session already started, state %s", s.state)
	}

	code, err := s.flow.RequestDeviceCode(ctx)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.code = code
	s.state = StateAwaitingUser
	return code, nil
}

// Poll polls once. It returns (nil, nil) and stays AWAITING_USER while authorization is pending.
func (s *Session) Poll(ctx context.Context) (*oauth.AccessToken, error) {
	if s.state != StateAwaitingUser {
		return nil, fmt.Errorf("device session cannot poll in state %s", s.state)
	}

	token, err := s.flow.PollForToken(ctx, s.code.DeviceCode)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	s.token = token
	s.state = StateAuthorized
	return token, nil
}

func (s *Session) fail(err error) {
	s.err = err
	s.state = StateFailed
}
