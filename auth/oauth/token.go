package oauth

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultTokenType is used when a token response omits token_type.
	DefaultTokenType = "Bearer"

	// DefaultExpiresIn is the lifetime assumed when a token response omits expires_in (one week).
	DefaultExpiresIn = 604800
)

// AccessToken is an OAuth access token and its expiry arithmetic. It is immutable.
type AccessToken struct {
	accessToken  string
	tokenType    string
	expiresIn    int
	refreshToken *string
	scope        *string
	createdAt    time.Time
}

// TokenOption sets an optional AccessToken field
type TokenOption func(*AccessToken)

// WithRefreshToken attaches a refresh token.
func WithRefreshToken(refreshToken string) TokenOption {
	return func(t *AccessToken) {
		t.refreshToken = &refreshToken
	}
}

// WithScope records the granted scope string.
func WithScope(scope string) TokenOption {
	return func(t *AccessToken) {
		t.scope = &scope
	}
}

// WithCreatedAt sets the issue instant. It defaults to now.
func WithCreatedAt(createdAt time.Time) TokenOption {
	return func(t *AccessToken) {
		t.createdAt = createdAt
	}
}

// NewAccessToken creates a token valid for expiresIn seconds from its creation instant.
// The creation instant is kept at one second resolution, the precision of its stored form.
func NewAccessToken(accessToken, tokenType string, expiresIn int, opts ...TokenOption) *AccessToken {
	t := &AccessToken{
		accessToken: accessToken,
		tokenType:   tokenType,
		expiresIn:   expiresIn,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.createdAt.IsZero() {
		t.createdAt = time.Now()
	}
	t.createdAt = time.Unix(t.createdAt.Unix(), 0)

	return t
}

// AccessTokenFromMap builds a token from a token endpoint response or from the output of ToMap.
// Missing token_type defaults to Bearer, missing expires_in to one week and missing created_at to now.
// Null or missing refresh_token and scope stay absent.
func AccessTokenFromMap(data map[string]interface{}) *AccessToken {
	tokenType := DefaultTokenType
	if v, ok := data["token_type"]; ok && v != nil {
		tokenType = toString(v)
	}

	expiresIn := DefaultExpiresIn
	if v, ok := data["expires_in"]; ok && v != nil {
		if n, ok := toInt64(v); ok {
			expiresIn = int(n)
		}
	}

	var opts []TokenOption
	if v, ok := data["refresh_token"]; ok && v != nil {
		opts = append(opts, WithRefreshToken(toString(v)))
	}
	if v, ok := data["scope"]; ok && v != nil {
		opts = append(opts, WithScope(toString(v)))
	}
	if v, ok := data["created_at"]; ok && v != nil {
		if n, ok := toInt64(v); ok {
			opts = append(opts, WithCreatedAt(time.Unix(n, 0)))
		}
	}

	return NewAccessToken(toString(data["access_token"]), tokenType, expiresIn, opts...)
}

// AccessTokenFromOAuth2 converts a golang.org/x/oauth2 token. A zero expiry maps to the default lifetime.
func AccessTokenFromOAuth2(tok *oauth2.Token) *AccessToken {
	now := time.Now()
	expiresIn := DefaultExpiresIn
	if !tok.Expiry.IsZero() {
		expiresIn = int(tok.Expiry.Sub(now).Round(time.Second) / time.Second)
	}

	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = DefaultTokenType
	}

	opts := []TokenOption{WithCreatedAt(now)}
	if tok.RefreshToken != "" {
		opts = append(opts, WithRefreshToken(tok.RefreshToken))
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		opts = append(opts, WithScope(scope))
	}

	return NewAccessToken(tok.AccessToken, tokenType, expiresIn, opts...)
}

func (t *AccessToken) AccessToken() string {
	return t.accessToken
}

func (t *AccessToken) TokenType() string {
	return t.tokenType
}

// ExpiresIn is the token lifetime in seconds.
func (t *AccessToken) ExpiresIn() int {
	return t.expiresIn
}

// RefreshToken returns the refresh token or "" when none was issued.
func (t *AccessToken) RefreshToken() string {
	if t.refreshToken == nil {
		return ""
	}
	return *t.refreshToken
}

func (t *AccessToken) HasRefreshToken() bool {
	return t.refreshToken != nil
}

// Scope returns the granted scope string and whether the server sent one.
func (t *AccessToken) Scope() (string, bool) {
	if t.scope == nil {
		return "", false
	}
	return *t.scope, true
}

func (t *AccessToken) CreatedAt() time.Time {
	return t.createdAt
}

func (t *AccessToken) ExpiresAt() time.Time {
	return t.createdAt.Add(time.Duration(t.expiresIn) * time.Second)
}

// IsExpired reports whether the token has reached its expiry instant.
func (t *AccessToken) IsExpired() bool {
	return t.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the token is expired at now. The expiry instant itself counts as expired.
func (t *AccessToken) IsExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt())
}

// ToMap returns the flat storage form read back by AccessTokenFromMap.
func (t *AccessToken) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"access_token":  t.accessToken,
		"token_type":    t.tokenType,
		"expires_in":    t.expiresIn,
		"refresh_token": nil,
		"scope":         nil,
		"created_at":    t.createdAt.Unix(),
	}
	if t.refreshToken != nil {
		m["refresh_token"] = *t.refreshToken
	}
	if t.scope != nil {
		m["scope"] = *t.scope
	}
	return m
}

// ToOAuth2Token converts the token for use with golang.org/x/oauth2.
func (t *AccessToken) ToOAuth2Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.accessToken,
		TokenType:    t.tokenType,
		RefreshToken: t.RefreshToken(),
		Expiry:       t.ExpiresAt(),
	}
	if t.scope != nil {
		tok = tok.WithExtra(map[string]interface{}{"scope": *t.scope})
	}
	return tok
}

func (t *AccessToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToMap())
}

func (t *AccessToken) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = *AccessTokenFromMap(m)
	return nil
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(math.Trunc(n)), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return i, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
