package auth

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/teamreflex/challonge-go/auth/oauth"
)

func TestAuthType(t *testing.T) {
	assert.Equal(t, "v1", AuthTypeAPIKey.String())
	assert.Equal(t, "v2", AuthTypeOAuth.String())
	assert.Equal(t, "Unknown", AuthType(7).String())

	assert.Equal(t, AuthTypeAPIKey, ParseAuthType("v1"))
	assert.Equal(t, AuthTypeOAuth, ParseAuthType("V2"))
	assert.Equal(t, AuthTypeUnknown, ParseAuthType("v3"))
}

func TestAPIKeyAuth(t *testing.T) {
	a := NewAPIKeyAuth("my-key")

	assert.Equal(t, AuthTypeAPIKey, a.AuthorizationType())
	assert.Equal(t, "my-key", a.AuthorizationHeader())
	assert.Equal(t, "my-key", a.APIKey())
	assert.True(t, a.IsValid())

	assert.False(t, NewAPIKeyAuth("").IsValid())
}

func TestOAuthTokenAuth(t *testing.T) {
	t.Run("header is type and token", func(t *testing.T) {
		a := NewOAuthTokenAuth(oauth.NewAccessToken("abc", "Bearer", 3600))

		assert.Equal(t, AuthTypeOAuth, a.AuthorizationType())
		assert.Equal(t, "Bearer abc", a.AuthorizationHeader())
		assert.True(t, a.IsValid())
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		created := time.Now().Add(-2 * time.Hour)
		a := NewOAuthTokenAuth(oauth.NewAccessToken("abc", "Bearer", 3600, oauth.WithCreatedAt(created)))

		assert.False(t, a.IsValid())
	})

	t.Run("update replaces the token", func(t *testing.T) {
		created := time.Now().Add(-2 * time.Hour)
		a := NewOAuthTokenAuth(oauth.NewAccessToken("old", "Bearer", 3600, oauth.WithCreatedAt(created)))
		fresh := oauth.NewAccessToken("new", "Bearer", 3600)

		a.UpdateAccessToken(fresh)

		assert.Same(t, fresh, a.AccessToken())
		assert.Equal(t, "Bearer new", a.AuthorizationHeader())
		assert.True(t, a.IsValid())
	})

	t.Run("nil token", func(t *testing.T) {
		a := NewOAuthTokenAuth(nil)
		assert.False(t, a.IsValid())
		assert.Empty(t, a.AuthorizationHeader())
	})

	t.Run("concurrent reads and writes", func(t *testing.T) {
		a := NewOAuthTokenAuth(oauth.NewAccessToken("t0", "Bearer", 3600))
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				a.UpdateAccessToken(oauth.NewAccessToken("t1", "Bearer", 3600))
			}()
			go func() {
				defer wg.Done()
				assert.Contains(t, []string{"Bearer t0", "Bearer t1"}, a.AuthorizationHeader())
			}()
		}
		wg.Wait()
	})
}

func TestSetHeaders(t *testing.T) {
	h := http.Header{}
	SetHeaders(h, NewAPIKeyAuth("key"))
	assert.Equal(t, "v1", h.Get("Authorization-Type"))
	assert.Equal(t, "key", h.Get("Authorization"))

	SetHeaders(h, NewOAuthTokenAuth(oauth.NewAccessToken("tok", "Bearer", 60)))
	assert.Equal(t, "v2", h.Get("Authorization-Type"))
	assert.Equal(t, "Bearer tok", h.Get("Authorization"))
}
