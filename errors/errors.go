package errors

import "github.com/pkg/errors"

// value to be used with errors.Is() to determine if an error chain contains a validation error (400 or 422)
var ValidationError error = errors.New("Validation Error")

// value to be used with errors.Is() to determine if an error chain contains an authorization failure (401 or 403)
var UnauthorizedError error = errors.New("Unauthorized Error")

// value to be used with errors.Is() to determine if an error chain contains a missing resource (404)
var NotFoundError error = errors.New("Not Found Error")

// value to be used with errors.Is() to determine if an error chain contains a content type rejection (406 or 415)
var InvalidFormatError error = errors.New("Invalid Format Error")

// value to be used with errors.Is() to determine if an error chain contains a server failure (500, 502, 503, 504)
var ServerError error = errors.New("Server Error")

// value to be used with errors.Is() to determine if an error chain contains any other non-2xx response
var UnexpectedError error = errors.New("Unexpected Error")

// value to be used with errors.Is() to determine if an error chain contains a failed OAuth token request
var TokenExchangeError error = errors.New("Token Exchange Error")

// value to be used with errors.Is() to determine if an error chain contains a request that could not be
// built or sent, or a successful response whose body could not be decoded
var RequestError error = errors.New("Request Error")

// Kind classifies every non-2xx API response.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindUnauthorized  Kind = "unauthorized"
	KindNotFound      Kind = "not-found"
	KindInvalidFormat Kind = "invalid-format"
	KindServer        Kind = "server"
	KindUnexpected    Kind = "unexpected"
)

// Sentinel returns the errors.Is() target for the kind.
func (k Kind) Sentinel() error {
	switch k {
	case KindValidation:
		return ValidationError
	case KindUnauthorized:
		return UnauthorizedError
	case KindNotFound:
		return NotFoundError
	case KindInvalidFormat:
		return InvalidFormatError
	case KindServer:
		return ServerError
	default:
		return UnexpectedError
	}
}

// ErrorEntry is one member of the "errors" list of an API error body.
//
//	{"status": 422, "detail": "Name can't be blank", "source": {"pointer": "/data/attributes/name"}}
type ErrorEntry struct {
	// Human readable description. Nil when the entry has none.
	Detail *string

	// Location of the offending field, e.g. /data/attributes/name. Nil when absent.
	Pointer *string

	// The entry as decoded from the body.
	Raw map[string]interface{}
}

// Base interface for client errors
type ChallongeError interface {
	// Descriptive message describing the error
	Error() string

	// User specified id to track what happens under a request.
	// Appears in log messages as field corrId. See challongectx.NewContextWithCorrelationId()
	CorrelationId() string

	// Id assigned by the client to the API call that failed. Appears in log messages as field reqId.
	RequestId() string

	// Stack trace associated with the error. May be nil.
	StackTrace() errors.StackTrace

	// Underlying causative error. May be nil.
	Cause() error
}

// An error produced by classifying a non-2xx API response.
type APIError interface {
	ChallongeError

	Kind() Kind

	// HTTP status code of the response
	StatusCode() int

	// Message built from the error body, or the fallback for the status. Never empty.
	Message() string
}

// A 400 or 422 response. 422 responses keep the structured error list.
type ValidationFailure interface {
	APIError

	// Entries of the "errors" list in original order. Nil for 400 responses.
	Errors() []ErrorEntry
}

// A response whose status is outside the known table.
type UnexpectedFailure interface {
	APIError

	// Parsed error body, nil when absent or unparseable.
	Response() map[string]interface{}
}

// A non-200 answer from an OAuth endpoint.
type TokenExchangeFailure interface {
	ChallongeError

	StatusCode() int

	// Raw response body
	Body() string
}
