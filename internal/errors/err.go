package errors

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/teamreflex/challonge-go/challongectx"
	chalerr "github.com/teamreflex/challonge-go/errors"
)

// Error messages
const (
	ErrRequestBuild     = "failed to build request"
	ErrRequestSend      = "failed to send request"
	ErrInvalidJSON      = "invalid JSON response"
	ErrInvalidOAuthJSON = "invalid JSON response from OAuth server"
	ErrTokenRequest     = "OAuth token request failed"
	ErrDeviceCode       = "device code request failed"
	ErrDevicePoll       = "device token poll failed"
	ErrNoAuthentication = "no authentication method set"
)

type challongeError struct {
	err           error
	correlationId string
	requestId     string
	errType       string
}

var _ error = (*challongeError)(nil)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func newChallongeError(ctx context.Context, msg string, err error) challongeError {
	// create an error with the new message
	if err == nil {
		err = errors.New(msg)
	} else {
		err = errors.WithMessage(err, msg)
	}

	// if the source error does not have a stack trace in its
	// error chain add a stack trace
	var st stackTracer
	if ok := errors.As(err, &st); !ok {
		err = errors.WithStack(err)
	}

	return challongeError{
		err:           err,
		correlationId: challongectx.CorrelationIdFromContext(ctx),
		requestId:     challongectx.RequestIdFromContext(ctx),
		errType:       "unknown",
	}
}

func (e challongeError) Error() string {
	return fmt.Sprintf("challonge: %s: %s", e.errType, e.err.Error())
}

func (e challongeError) Cause() error {
	return e.err
}

func (e challongeError) StackTrace() errors.StackTrace {
	var st stackTracer
	if ok := errors.As(e.err, &st); ok {
		return st.StackTrace()
	}

	return nil
}

func (e challongeError) CorrelationId() string {
	return e.correlationId
}

func (e challongeError) RequestId() string {
	return e.requestId
}

// apiError is a classified non-2xx API response
type apiError struct {
	challongeError
	kind       chalerr.Kind
	statusCode int
	message    string
}

var _ chalerr.APIError = (*apiError)(nil)

func (e apiError) Is(err error) bool {
	return err == e.kind.Sentinel()
}

func (e apiError) Unwrap() error {
	return e.err
}

func (e apiError) Kind() chalerr.Kind {
	return e.kind
}

func (e apiError) StatusCode() int {
	return e.statusCode
}

func (e apiError) Message() string {
	return e.message
}

func newAPIError(ctx context.Context, kind chalerr.Kind, statusCode int, message string) apiError {
	baseErr := newChallongeError(ctx, message, nil)
	baseErr.errType = string(kind) + " error"
	return apiError{challongeError: baseErr, kind: kind, statusCode: statusCode, message: message}
}

// NewAPIError creates an error for the unauthorized, not-found, invalid-format and server kinds.
// Validation and unexpected responses have their own constructors so they can keep the body.
func NewAPIError(ctx context.Context, kind chalerr.Kind, statusCode int, message string) *apiError {
	e := newAPIError(ctx, kind, statusCode, message)
	return &e
}

// validationError is a 400 or 422 response
type validationError struct {
	apiError
	entries []chalerr.ErrorEntry
}

var _ chalerr.ValidationFailure = (*validationError)(nil)

func (e validationError) Errors() []chalerr.ErrorEntry {
	return e.entries
}

func NewValidationError(ctx context.Context, statusCode int, message string, entries []chalerr.ErrorEntry) *validationError {
	return &validationError{
		apiError: newAPIError(ctx, chalerr.KindValidation, statusCode, message),
		entries:  entries,
	}
}

// unexpectedError is a response whose status is not in the classification table
type unexpectedError struct {
	apiError
	response map[string]interface{}
}

var _ chalerr.UnexpectedFailure = (*unexpectedError)(nil)

func (e unexpectedError) Response() map[string]interface{} {
	return e.response
}

func NewUnexpectedError(ctx context.Context, statusCode int, message string, response map[string]interface{}) *unexpectedError {
	return &unexpectedError{
		apiError: newAPIError(ctx, chalerr.KindUnexpected, statusCode, message),
		response: response,
	}
}

// tokenExchangeError is a non-200 answer from an OAuth endpoint
type tokenExchangeError struct {
	challongeError
	statusCode int
	body       string
}

var _ chalerr.TokenExchangeFailure = (*tokenExchangeError)(nil)

func (e tokenExchangeError) Is(err error) bool {
	return err == chalerr.TokenExchangeError
}

func (e tokenExchangeError) Unwrap() error {
	return e.err
}

func (e tokenExchangeError) StatusCode() int {
	return e.statusCode
}

func (e tokenExchangeError) Body() string {
	return e.body
}

// NewTokenExchangeError builds the uniform token endpoint failure: "<msg> with status <code>: <body>".
func NewTokenExchangeError(ctx context.Context, msg string, statusCode int, body string) *tokenExchangeError {
	baseErr := newChallongeError(ctx, fmt.Sprintf("%s with status %d: %s", msg, statusCode, body), nil)
	baseErr.errType = "token exchange error"
	return &tokenExchangeError{challongeError: baseErr, statusCode: statusCode, body: body}
}

// requestError covers requests that could not be built or sent and success bodies that could not be decoded
type requestError struct {
	challongeError
}

var _ chalerr.ChallongeError = (*requestError)(nil)

func (e requestError) Is(err error) bool {
	return err == chalerr.RequestError
}

func (e requestError) Unwrap() error {
	return e.err
}

func NewRequestError(ctx context.Context, msg string, err error) *requestError {
	baseErr := newChallongeError(ctx, msg, err)
	baseErr.errType = "request error"
	return &requestError{challongeError: baseErr}
}

// wraps an error and adds trace if not already present
func WrapErr(err error, msg string) error {
	var st stackTracer
	if ok := errors.As(err, &st); ok {
		// wrap passed in error in a new error with the message
		return errors.WithMessage(err, msg)
	}

	// wrap passed in error in errors with the message and a stack trace
	return errors.Wrap(err, msg)
}

// adds a stack trace if not already present
func WrapErrf(err error, format string, args ...interface{}) error {
	var st stackTracer
	if ok := errors.As(err, &st); ok {
		// wrap passed in error in a new error with the formatted message
		return errors.WithMessagef(err, format, args...)
	}

	// wrap passed in error in errors with the formatted message and a stack trace
	return errors.Wrapf(err, format, args...)
}
