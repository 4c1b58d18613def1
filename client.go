package challonge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/teamreflex/challonge-go/auth"
	"github.com/teamreflex/challonge-go/challongectx"
	"github.com/teamreflex/challonge-go/httpclient"
	interr "github.com/teamreflex/challonge-go/internal/errors"
	"github.com/teamreflex/challonge-go/logger"
)

const (
	DefaultBaseURL = "https://api.challonge.com"
	APIVersion     = "v2.1"
)

// Client sends requests to the Challonge API and classifies the responses.
// It is safe for concurrent use; SetAuth swaps the provider atomically.
type Client struct {
	doer       httpclient.Doer
	provider   atomic.Pointer[auth.Provider]
	baseURL    string
	version    string
	mapOptions bool
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithVersion sets the version reported in the User-Agent header.
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = version
	}
}

// WithMapOptions enables MapOptions, for callers still sending v1 style form keys.
func WithMapOptions(mapOptions bool) ClientOption {
	return func(c *Client) {
		c.mapOptions = mapOptions
	}
}

// NewClient returns a client sending requests through doer and authenticated by provider.
// A nil doer uses httpclient.NewDoer(nil).
func NewClient(doer httpclient.Doer, provider auth.Provider, options ...ClientOption) *Client {
	if doer == nil {
		doer = httpclient.NewDoer(nil)
	}
	c := &Client{
		doer:    doer,
		baseURL: DefaultBaseURL,
		version: Version,
	}
	for _, opt := range options {
		opt(c)
	}
	c.SetAuth(provider)
	return c
}

// Auth returns the provider used for new requests.
func (c *Client) Auth() auth.Provider {
	p := c.provider.Load()
	if p == nil {
		return nil
	}
	return *p
}

// SetAuth replaces the provider used for new requests.
func (c *Client) SetAuth(provider auth.Provider) {
	c.provider.Store(&provider)
}

func (c *Client) Doer() httpclient.Doer {
	return c.doer
}

// Request sends one API call. path is relative to the API version, e.g. "tournaments" or
// "/tournaments/123"; ".json" is added when missing. body is JSON encoded when non-empty and
// query is appended when non-empty.
//
// A 204 or an empty 2xx body yields an empty Payload. Other 2xx bodies must be JSON objects.
// Non-2xx statuses are returned as errors matching one of the kinds in the errors package.
func (c *Client) Request(ctx context.Context, method, path string, body map[string]interface{}, query url.Values) (Payload, error) {
	provider := c.Auth()
	if provider == nil {
		return nil, interr.NewRequestError(ctx, interr.ErrNoAuthentication, nil)
	}

	ctx = challongectx.NewContextWithRequestId(ctx, uuid.NewString())
	log := logger.WithContext(ctx)

	req, err := c.buildRequest(method, path, body, query, provider)
	if err != nil {
		return nil, interr.NewRequestError(ctx, interr.ErrRequestBuild, err)
	}

	if !provider.IsValid() {
		log.Warn().Str("authType", provider.AuthorizationType().String()).Msg("challonge: sending request with invalid credentials")
	}

	start := time.Now()
	log.Debug().Str("method", req.Method).Str("url", req.URL).Msg("challonge: sending request")

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		log.Err(err).Str("method", req.Method).Str("url", req.URL).Msg("challonge: request failed")
		return nil, interr.NewRequestError(ctx, interr.ErrRequestSend, err)
	}

	log.Debug().
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("challonge: received response")

	return handleResponse(ctx, resp)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (Payload, error) {
	return c.Request(ctx, http.MethodGet, path, nil, query)
}

func (c *Client) Post(ctx context.Context, path string, body map[string]interface{}) (Payload, error) {
	return c.Request(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) Put(ctx context.Context, path string, body map[string]interface{}) (Payload, error) {
	return c.Request(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) Delete(ctx context.Context, path string) (Payload, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// MapOptions rewrites options to v1 form keys, {"name": x} to {"tournament[name]": x} for scope
// "tournament". It returns options unchanged unless the client was built WithMapOptions(true).
func (c *Client) MapOptions(options map[string]interface{}, scope string) map[string]interface{} {
	if !c.mapOptions {
		return options
	}

	mapped := make(map[string]interface{}, len(options))
	for k, v := range options {
		mapped[fmt.Sprintf("%s[%s]", scope, k)] = v
	}
	return mapped
}
