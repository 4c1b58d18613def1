package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamreflex/challonge-go/auth"
	"github.com/teamreflex/challonge-go/auth/oauth"
	"github.com/teamreflex/challonge-go/auth/oauth/device"
	chalerr "github.com/teamreflex/challonge-go/errors"
	"github.com/teamreflex/challonge-go/httpclient"
	"github.com/teamreflex/challonge-go/internal/config"
	interr "github.com/teamreflex/challonge-go/internal/errors"
	"golang.org/x/oauth2"
)

func TestParseQuery(t *testing.T) {
	q, err := parseQuery([]string{"state=pending", "page=2", "state=underway", "empty="})
	require.NoError(t, err)
	assert.Equal(t, url.Values{
		"state": {"pending", "underway"},
		"page":  {"2"},
		"empty": {""},
	}, q)

	_, err = parseQuery([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseQuery([]string{"=x"})
	assert.Error(t, err)
}

func TestResolveProvider(t *testing.T) {
	newConfig := func(t *testing.T, apiKey string) *config.Config {
		c, err := config.Parse(map[string]string{
			"CHALLONGE_API_KEY":    apiKey,
			"CHALLONGE_TOKEN_FILE": filepath.Join(t.TempDir(), "token.json"),
		})
		require.NoError(t, err)
		return c
	}

	t.Run("stored token wins", func(t *testing.T) {
		c := newConfig(t, "key")
		require.NoError(t, c.TokenStore().Save(oauth.NewAccessToken("tok", "Bearer", 3600)))

		p, err := resolveProvider(c)
		require.NoError(t, err)
		assert.Equal(t, auth.AuthTypeOAuth, p.AuthorizationType())
		assert.Equal(t, "Bearer tok", p.AuthorizationHeader())
	})

	t.Run("expired token falls back to the key", func(t *testing.T) {
		c := newConfig(t, "key")
		expired := oauth.NewAccessToken("tok", "Bearer", 60, oauth.WithCreatedAt(time.Now().Add(-time.Hour)))
		require.NoError(t, c.TokenStore().Save(expired))

		p, err := resolveProvider(c)
		require.NoError(t, err)
		assert.Equal(t, auth.AuthTypeAPIKey, p.AuthorizationType())
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := resolveProvider(newConfig(t, ""))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errNoCredentials))
		assert.Equal(t, ExitCodeAuthRequired, getExitCode(err))
	})
}

func TestGetExitCode(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ExitCodeError, getExitCode(errors.New("boom")))
	assert.Equal(t, ExitCodeAuthRequired, getExitCode(interr.NewAPIError(ctx, chalerr.KindUnauthorized, 401, "no")))
	assert.Equal(t, ExitCodeAuthFailed, getExitCode(interr.NewTokenExchangeError(ctx, interr.ErrTokenRequest, 400, "{}")))
	assert.Equal(t, ExitCodeError, getExitCode(interr.NewAPIError(ctx, chalerr.KindNotFound, 404, "gone")))
}

func TestRenderToken(t *testing.T) {
	t.Run("opaque token", func(t *testing.T) {
		var buf bytes.Buffer
		token := oauth.NewAccessToken("abcdefghijklmnopqrstuvwxyz", "Bearer", 3600, oauth.WithScope("me"))

		renderToken(&buf, token, time.Now())

		out := buf.String()
		assert.Contains(t, out, "abcd...wxyz")
		assert.NotContains(t, out, "abcdefghijklmnopqrstuvwxyz")
		assert.Contains(t, out, "valid")
		assert.Contains(t, out, "none")
		assert.Contains(t, out, "me")
		assert.NotContains(t, out, "JWT claims")
	})

	t.Run("jwt claims are listed", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-42", "scope": "me"}).SignedString([]byte("secret"))
		require.NoError(t, err)

		var buf bytes.Buffer
		token := oauth.NewAccessToken(signed, "Bearer", 60, oauth.WithCreatedAt(time.Now().Add(-time.Hour)), oauth.WithRefreshToken("refresh-token-value"))
		renderToken(&buf, token, time.Now())

		out := buf.String()
		assert.Contains(t, out, "expired")
		assert.Contains(t, strings.ToUpper(out), "JWT CLAIMS (UNVERIFIED)")
		assert.Contains(t, out, "user-42")
		assert.Contains(t, out, "refr...alue")
	})

	t.Run("mask short secrets", func(t *testing.T) {
		assert.Equal(t, "****", mask("short"))
	})
}

func TestPollSession(t *testing.T) {
	newSession := func(t *testing.T, handler http.HandlerFunc) *device.Session {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		config := oauth.NewConfig("client-id", "", oauth.WithEndpoint(oauth2.Endpoint{
			TokenURL:      server.URL + "/token",
			DeviceAuthURL: server.URL + "/device",
		}))
		return device.NewFlow(config, httpclient.NewDoer(nil)).NewSession()
	}

	t.Run("returns the token once approved", func(t *testing.T) {
		var polls int32
		session := newSession(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/device" {
				fmt.Fprint(w, `{"device_code":"d","user_code":"U","verification_uri":"https://challonge.com/device","expires_in":30,"interval":1}`)
				return
			}
			atomic.AddInt32(&polls, 1)
			fmt.Fprint(w, `{"access_token":"device-token"}`)
		})
		code, err := session.Start(context.Background())
		require.NoError(t, err)

		token, err := pollSession(context.Background(), session, code)
		require.NoError(t, err)
		assert.Equal(t, "device-token", token.AccessToken())
		assert.Equal(t, int32(1), atomic.LoadInt32(&polls))
		assert.Equal(t, device.StateAuthorized, session.State())
	})

	t.Run("gives up when the code expires", func(t *testing.T) {
		session := newSession(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"device_code":"d","user_code":"U","verification_uri":"https://challonge.com/device","expires_in":1,"interval":5}`)
		})
		code, err := session.Start(context.Background())
		require.NoError(t, err)

		_, err = pollSession(context.Background(), session, code)
		assert.ErrorIs(t, err, errDeviceCodeExpired)
		assert.Equal(t, device.StateAwaitingUser, session.State())
	})
}

func TestClientCredentialsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"app-token","expires_in":7200}`)
	}))
	defer server.Close()

	tokenFile := filepath.Join(t.TempDir(), "token.json")
	t.Setenv("CHALLONGE_CLIENT_ID", "client-id")
	t.Setenv("CHALLONGE_CLIENT_SECRET", "client-secret")
	t.Setenv("CHALLONGE_TOKEN_URL", server.URL)
	t.Setenv("CHALLONGE_TOKEN_FILE", tokenFile)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"auth", "client-credentials"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Token saved to "+tokenFile)
	stored, err := oauth.NewFileTokenStore(tokenFile).Load()
	require.NoError(t, err)
	assert.Equal(t, "app-token", stored.AccessToken())
	assert.Equal(t, 7200, stored.ExpiresIn())
}
