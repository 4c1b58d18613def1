// Package config reads the settings of the challonge command from the environment and optional .env files.
package config

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/teamreflex/challonge-go/auth/oauth"
	"github.com/teamreflex/challonge-go/httpclient"
	"golang.org/x/oauth2"
)

// Config is the command configuration. Values come from CHALLONGE_* variables.
type Config struct {
	APIKey       string   `env:"CHALLONGE_API_KEY"`
	ClientID     string   `env:"CHALLONGE_CLIENT_ID"`
	ClientSecret string   `env:"CHALLONGE_CLIENT_SECRET"`
	RedirectURI  string   `env:"CHALLONGE_REDIRECT_URI"`
	Scopes       []string `env:"CHALLONGE_SCOPES" envSeparator:","`

	BaseURL      string `env:"CHALLONGE_BASE_URL" envDefault:"https://api.challonge.com"`
	AuthorizeURL string `env:"CHALLONGE_AUTHORIZE_URL" envDefault:"https://api.challonge.com/oauth/authorize"`
	TokenURL     string `env:"CHALLONGE_TOKEN_URL" envDefault:"https://api.challonge.com/oauth/token"`
	DeviceURL    string `env:"CHALLONGE_DEVICE_CODE_URL" envDefault:"https://api.challonge.com/oauth/device/code"`

	// TokenFile overrides the per client path under ~/.config/challonge-go/tokens.
	TokenFile string `env:"CHALLONGE_TOKEN_FILE"`

	LogLevel    string        `env:"CHALLONGE_LOG_LEVEL" envDefault:"warn"`
	HTTPRetries int           `env:"CHALLONGE_HTTP_RETRIES" envDefault:"0"`
	HTTPTimeout time.Duration `env:"CHALLONGE_HTTP_TIMEOUT" envDefault:"30s"`
}

// Load reads the given .env files, or ./.env if present when none are given, then parses the
// environment. Variables already set in the environment win over the files.
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if err := godotenv.Load(paths...); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Parse reads the configuration from environ instead of the process environment.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	scopes := make([]string, 0, len(c.Scopes))
	for _, s := range c.Scopes {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	c.Scopes = scopes
}

// OAuthConfig returns the application registration described by the configuration.
func (c *Config) OAuthConfig() *oauth.Config {
	return oauth.NewConfig(c.ClientID, c.ClientSecret,
		oauth.WithRedirectURI(c.RedirectURI),
		oauth.WithScopes(c.Scopes...),
		oauth.WithEndpoint(oauth2.Endpoint{
			AuthURL:       c.AuthorizeURL,
			TokenURL:      c.TokenURL,
			DeviceAuthURL: c.DeviceURL,
		}))
}

// Doer returns a retrying transport when HTTPRetries is positive and a plain one otherwise.
func (c *Config) Doer() httpclient.Doer {
	if c.HTTPRetries > 0 {
		return httpclient.NewRetryingDoer(c.HTTPRetries, c.HTTPTimeout)
	}
	return httpclient.NewDoer(&http.Client{Timeout: c.HTTPTimeout})
}

// ZerologLevel parses LogLevel, falling back to warn.
func (c *Config) ZerologLevel() zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return l
}

// TokenStore returns the store for the tokens of the configured client.
func (c *Config) TokenStore() *oauth.FileTokenStore {
	path := c.TokenFile
	if path == "" {
		path = oauth.DefaultTokenStorePath(c.ClientID, c.Scopes)
	}
	return oauth.NewFileTokenStore(path)
}
