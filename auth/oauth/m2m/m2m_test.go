package m2m

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamreflex/challonge-go/auth/oauth"
	chalerr "github.com/teamreflex/challonge-go/errors"
	"github.com/teamreflex/challonge-go/httpclient"
	"golang.org/x/oauth2"
)

func newTestConfig(serverURL string, scopes ...string) *oauth.Config {
	return oauth.NewConfig("client-id", "client-secret",
		oauth.WithScopes(scopes...),
		oauth.WithEndpoint(oauth2.Endpoint{TokenURL: serverURL + "/oauth/token"}))
}

func TestClientCredentialsFlow(t *testing.T) {
	t.Run("sends the client credentials grant", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/oauth/token", r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "scope=tournaments%3Aread+matches%3Aread")
			assert.Contains(t, string(body), "grant_type=client_credentials")
			assert.Contains(t, string(body), "client_id=client-id")
			assert.Contains(t, string(body), "client_secret=client-secret")

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "app-token",
				"token_type":   "Bearer",
				"expires_in":   7200,
				"scope":        "tournaments:read matches:read",
			})
		}))
		defer server.Close()

		flow := NewFlow(newTestConfig(server.URL, oauth.ScopeTournamentsRead, oauth.ScopeMatchesRead), httpclient.NewDoer(server.Client()))
		token, err := flow.AccessToken(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "app-token", token.AccessToken())
		assert.Equal(t, 7200, token.ExpiresIn())
		assert.False(t, token.HasRefreshToken())
	})

	t.Run("never returns a refresh token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"access_token":"app-token","refresh_token":"unexpected","scope":"me","created_at":1700000000}`))
		}))
		defer server.Close()

		token, err := NewFlow(newTestConfig(server.URL), httpclient.NewDoer(nil)).AccessToken(context.Background())

		require.NoError(t, err)
		assert.False(t, token.HasRefreshToken())
		scope, _ := token.Scope()
		assert.Equal(t, "me", scope)
		assert.Equal(t, int64(1700000000), token.CreatedAt().Unix())
	})

	t.Run("non-200 fails with status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		}))
		defer server.Close()

		_, err := NewFlow(newTestConfig(server.URL), httpclient.NewDoer(nil)).AccessToken(context.Background())

		var tf chalerr.TokenExchangeFailure
		require.True(t, errors.As(err, &tf))
		assert.Equal(t, 401, tf.StatusCode())
		assert.Equal(t, `{"error":"invalid_client"}`, tf.Body())
	})
}

func TestTokenSource(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"access_token":"app-token","expires_in":3600}`))
	}))
	defer server.Close()

	ts := NewFlow(newTestConfig(server.URL), httpclient.NewDoer(nil)).TokenSource(context.Background())

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "app-token", tok.AccessToken)
	assert.True(t, tok.Valid())

	reuse := oauth2.ReuseTokenSource(nil, ts)
	_, err = reuse.Token()
	require.NoError(t, err)
	_, err = reuse.Token()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
