package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chalerr "github.com/teamreflex/challonge-go/errors"
	"github.com/teamreflex/challonge-go/httpclient"
)

func respond(status int, body string, seen **httpclient.Request) httpclient.Doer {
	return httpclient.DoerFunc(func(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
		if seen != nil {
			*seen = req
		}
		return &httpclient.Response{StatusCode: status, Body: []byte(body)}, nil
	})
}

func TestRequestToken(t *testing.T) {
	params := url.Values{"grant_type": []string{GrantTypeClientCredentials}}

	t.Run("success", func(t *testing.T) {
		var req *httpclient.Request
		tok, err := RequestToken(context.Background(), respond(200, `{"access_token":"abc","expires_in":7200}`, &req), "https://auth.test/token", params)

		require.NoError(t, err)
		assert.Equal(t, "abc", tok.AccessToken())
		assert.Equal(t, 7200, tok.ExpiresIn())

		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://auth.test/token", req.URL)
		assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.Equal(t, "grant_type=client_credentials", string(req.Body))
	})

	t.Run("non-200 carries status and body", func(t *testing.T) {
		_, err := RequestToken(context.Background(), respond(401, `{"error":"invalid_client"}`, nil), "https://auth.test/token", params)

		require.Error(t, err)
		assert.True(t, errors.Is(err, chalerr.TokenExchangeError))
		var tf chalerr.TokenExchangeFailure
		require.True(t, errors.As(err, &tf))
		assert.Equal(t, 401, tf.StatusCode())
		assert.Equal(t, `{"error":"invalid_client"}`, tf.Body())
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("201 is a failure too", func(t *testing.T) {
		_, err := RequestToken(context.Background(), respond(201, `{"access_token":"abc"}`, nil), "https://auth.test/token", params)
		assert.True(t, errors.Is(err, chalerr.TokenExchangeError))
	})

	t.Run("200 without a JSON object", func(t *testing.T) {
		for _, body := range []string{"not json", `["a"]`, `"str"`, "null", ""} {
			_, err := RequestToken(context.Background(), respond(200, body, nil), "https://auth.test/token", params)
			require.Error(t, err, body)
			assert.True(t, errors.Is(err, chalerr.RequestError), body)
			assert.Contains(t, err.Error(), "invalid JSON response from OAuth server")
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		cause := errors.New("connection refused")
		doer := httpclient.DoerFunc(func(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
			return nil, cause
		})

		_, err := RequestToken(context.Background(), doer, "https://auth.test/token", params)
		assert.True(t, errors.Is(err, chalerr.RequestError))
		assert.True(t, errors.Is(err, cause))
	})
}

func TestDecodeObject(t *testing.T) {
	m, err := DecodeObject([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, float64(1), m["a"])

	_, err = DecodeObject([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = DecodeObject([]byte(`null`))
	assert.Error(t, err)
}
