package u2m

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/teamreflex/challonge-go/logger"
)

// DefaultCallbackTimeout bounds how long Wait blocks for the browser redirect.
const DefaultCallbackTimeout = 2 * time.Minute

type callbackResponse struct {
	err     string
	details string
	state   string
	code    string
}

// CallbackServer receives the authorization code redirect on a loopback redirect URI
// such as http://localhost:8030/callback, for command line tools that have no web server.
type CallbackServer struct {
	redirectURL *url.URL
	state       string
	timeout     time.Duration
	doneCh      chan callbackResponse
	listener    net.Listener
	srv         *http.Server
}

func NewCallbackServer(redirectURI, state string, timeout time.Duration) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid redirect URI %q: missing host", redirectURI)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	if timeout == 0 {
		timeout = DefaultCallbackTimeout
	}

	return &CallbackServer{
		redirectURL: u,
		state:       state,
		timeout:     timeout,
		doneCh:      make(chan callbackResponse, 1),
	}, nil
}

// Start listens on the redirect URI host and serves the callback path.
func (s *CallbackServer) Start() error {
	listener, err := net.Listen("tcp", s.redirectURL.Host)
	if err != nil {
		return err
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle(s.redirectURL.Path, s)
	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	logger.Log.Info().Msgf("listening on %s://%s%s", s.redirectURL.Scheme, listener.Addr(), s.redirectURL.Path)
	go func() {
		err := s.srv.Serve(listener)

		// in case port is in use
		if err != nil && err != http.ErrServerClosed {
			s.send(callbackResponse{err: err.Error()})
		}
	}()

	return nil
}

// Addr is the address actually bound, useful when the redirect URI asked for port 0.
func (s *CallbackServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Wait blocks until the redirect arrives, ctx is done or the timeout passes, then stops the server.
// It returns the authorization code once the state has been checked.
func (s *CallbackServer) Wait(ctx context.Context) (string, error) {
	if s.srv == nil {
		return "", errors.New("callback server not started")
	}
	defer s.srv.Close()

	select {
	case resp := <-s.doneCh:
		if resp.err != "" {
			return "", fmt.Errorf("identity provider error: %s: %s", resp.err, resp.details)
		}
		if resp.state != s.state {
			return "", errors.New("authorization state did not match the original request")
		}
		if resp.code == "" {
			return "", errors.New("authorization callback carried no code")
		}
		return resp.code, nil

	case <-ctx.Done():
		return "", ctx.Err()

	case <-time.After(s.timeout):
		return "", errors.New("timed out waiting for response from provider")
	}
}

func (s *CallbackServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/favicon.ico" {
		http.NotFound(w, r)
		return
	}

	resp := callbackResponse{
		err:     r.URL.Query().Get("error"),
		details: r.URL.Query().Get("error_description"),
		state:   r.URL.Query().Get("state"),
		code:    r.URL.Query().Get("code"),
	}

	// hand the response to Wait
	defer s.send(resp)

	if resp.err != "" {
		logger.Log.Error().Msg(resp.err)
		s.write(w, http.StatusBadRequest, errorHTML("Challonge returned an error: "+resp.err))
		return
	}
	if resp.state != s.state {
		msg := "Authorization state received did not match original request. Please try to login again."
		logger.Log.Error().Msg(msg)
		s.write(w, http.StatusBadRequest, errorHTML(msg))
		return
	}

	s.write(w, http.StatusOK, infoHTML("Login Success", "You may close this window and go back to the terminal"))
}

func (s *CallbackServer) write(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(page)); err != nil {
		logger.Log.Error().Err(err).Msg("unable to write callback response")
	}
}

// send keeps only the first callback
func (s *CallbackServer) send(resp callbackResponse) {
	select {
	case s.doneCh <- resp:
	default:
	}
}
