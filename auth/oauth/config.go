package oauth

import (
	"strings"

	"golang.org/x/oauth2"
)

const (
	AuthorizeURL  = "https://api.challonge.com/oauth/authorize"
	TokenURL      = "https://api.challonge.com/oauth/token"
	DeviceCodeURL = "https://api.challonge.com/oauth/device/code"
)

// Scopes understood by the Challonge authorization server
const (
	ScopeMe                   = "me"
	ScopeApplicationOrganizer = "application:organizer"
	ScopeApplicationPlayer    = "application:player"
	ScopeTournamentsRead      = "tournaments:read"
	ScopeTournamentsWrite     = "tournaments:write"
	ScopeMatchesRead          = "matches:read"
	ScopeMatchesWrite         = "matches:write"
	ScopeAttachmentsRead      = "attachments:read"
	ScopeAttachmentsWrite     = "attachments:write"
	ScopeParticipantsRead     = "participants:read"
	ScopeParticipantsWrite    = "participants:write"
	ScopeCommunitiesManage    = "communities:manage"
)

// Endpoint is the Challonge OAuth endpoint set.
var Endpoint = oauth2.Endpoint{
	AuthURL:       AuthorizeURL,
	TokenURL:      TokenURL,
	DeviceAuthURL: DeviceCodeURL,
}

// Config holds the registration of a Challonge developer application. It is not modified after construction.
type Config struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
	endpoint     oauth2.Endpoint
}

// ConfigOption configures a Config
type ConfigOption func(*Config)

// WithRedirectURI sets the redirect URI registered with the application.
func WithRedirectURI(redirectURI string) ConfigOption {
	return func(c *Config) {
		c.redirectURI = redirectURI
	}
}

// WithScopes sets the scopes requested by every flow, in order.
func WithScopes(scopes ...string) ConfigOption {
	return func(c *Config) {
		c.scopes = append([]string(nil), scopes...)
	}
}

// WithEndpoint replaces the Challonge endpoints, e.g. to point at a test server.
func WithEndpoint(endpoint oauth2.Endpoint) ConfigOption {
	return func(c *Config) {
		c.endpoint = endpoint
	}
}

func NewConfig(clientID, clientSecret string, options ...ConfigOption) *Config {
	c := &Config{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     Endpoint,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Config) ClientID() string {
	return c.clientID
}

func (c *Config) ClientSecret() string {
	return c.clientSecret
}

func (c *Config) RedirectURI() string {
	return c.redirectURI
}

// Scopes returns a copy of the configured scopes.
func (c *Config) Scopes() []string {
	return append([]string(nil), c.scopes...)
}

// ScopeString joins the scopes with spaces for transmission.
func (c *Config) ScopeString() string {
	return strings.Join(c.scopes, " ")
}

func (c *Config) AuthorizeURL() string {
	return c.endpoint.AuthURL
}

func (c *Config) TokenURL() string {
	return c.endpoint.TokenURL
}

func (c *Config) DeviceCodeURL() string {
	return c.endpoint.DeviceAuthURL
}

// Endpoint returns the endpoints in golang.org/x/oauth2 form.
func (c *Config) Endpoint() oauth2.Endpoint {
	return c.endpoint
}
