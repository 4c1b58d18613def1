// Package httpclient defines the synchronous HTTP transport consumed by the OAuth flows and the API client.
//
// Retries, pooling and TLS are the business of the Doer implementation. NewDoer adapts a plain
// *http.Client and NewRetryingDoer a go-retryablehttp client.
package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/teamreflex/challonge-go/logger"
)

// DefaultTimeout bounds a single exchange when the caller does not provide a client.
const DefaultTimeout = 30 * time.Second

// Request is one outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the status and full body of a completed call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Doer sends a request and blocks until the response body has been read.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// DoerFunc adapts an ordinary function to the Doer interface.
type DoerFunc func(ctx context.Context, req *Request) (*Response, error)

func (f DoerFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

type stdDoer struct {
	client *http.Client
}

// NewDoer returns a Doer backed by client. A nil client gets one with DefaultTimeout.
func NewDoer(client *http.Client) Doer {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &stdDoer{client: client}
}

func (d *stdDoer) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// NewRetryingDoer returns a Doer that retries connection errors and 5xx/429 responses up to
// retries times with go-retryablehttp's default backoff. Retry attempts are logged through zerolog.
func NewRetryingDoer(retries int, timeout time.Duration) Doer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.HTTPClient.Timeout = timeout
	rc.Logger = &leveledLogger{}

	// the last response is handed back untouched so the caller can classify it
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return NewDoer(rc.StandardClient())
}

// leveledLogger routes go-retryablehttp logging into the package logger.
type leveledLogger struct{}

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(logger.Log.Error(), msg, keysAndValues)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(logger.Log.Info(), msg, keysAndValues)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(logger.Log.Debug(), msg, keysAndValues)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(logger.Log.Warn(), msg, keysAndValues)
}

func (l *leveledLogger) log(e *zerolog.Event, msg string, keysAndValues []interface{}) {
	e.Fields(keysAndValues).Msg(msg)
}
