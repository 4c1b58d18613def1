package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig("id", "secret")

		assert.Equal(t, "id", cfg.ClientID())
		assert.Equal(t, "secret", cfg.ClientSecret())
		assert.Equal(t, "", cfg.RedirectURI())
		assert.Empty(t, cfg.Scopes())
		assert.Equal(t, "", cfg.ScopeString())
		assert.Equal(t, "https://api.challonge.com/oauth/authorize", cfg.AuthorizeURL())
		assert.Equal(t, "https://api.challonge.com/oauth/token", cfg.TokenURL())
		assert.Equal(t, "https://api.challonge.com/oauth/device/code", cfg.DeviceCodeURL())
	})

	t.Run("scopes keep their order", func(t *testing.T) {
		cfg := NewConfig("id", "secret", WithScopes(ScopeTournamentsRead, ScopeMatchesRead, ScopeMe))

		assert.Equal(t, []string{"tournaments:read", "matches:read", "me"}, cfg.Scopes())
		assert.Equal(t, "tournaments:read matches:read me", cfg.ScopeString())
	})

	t.Run("scopes are copied", func(t *testing.T) {
		scopes := []string{ScopeMe}
		cfg := NewConfig("id", "secret", WithScopes(scopes...))
		scopes[0] = "changed"

		cfg.Scopes()[0] = "mutated"
		assert.Equal(t, []string{"me"}, cfg.Scopes())
	})

	t.Run("endpoint override", func(t *testing.T) {
		cfg := NewConfig("id", "secret",
			WithRedirectURI("https://example.com/cb"),
			WithEndpoint(oauth2.Endpoint{AuthURL: "a", TokenURL: "t", DeviceAuthURL: "d"}))

		assert.Equal(t, "https://example.com/cb", cfg.RedirectURI())
		assert.Equal(t, "a", cfg.AuthorizeURL())
		assert.Equal(t, "t", cfg.TokenURL())
		assert.Equal(t, "d", cfg.DeviceCodeURL())
	})
}
