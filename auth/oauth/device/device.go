// Package device implements the device authorization grant for games and apps on platforms without
// a browser or keyboard.
//
// RequestDeviceCode returns a user code and a verification URI to show the player. The caller then
// calls PollForToken every Interval seconds until it returns a token, fails, or the device code
// expires. The flow holds no state and owns no timer; Session tracks progress for callers that want it.
package device

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/teamreflex/challonge-go/auth/oauth"
	"github.com/teamreflex/challonge-go/httpclient"
	interr "github.com/teamreflex/challonge-go/internal/errors"
	"github.com/teamreflex/challonge-go/logger"
)

// ErrorAuthorizationPending is the token endpoint error returned while the user has not yet approved.
const ErrorAuthorizationPending = "authorization_pending"

// DefaultInterval is the polling interval to use when the server does not send one.
const DefaultInterval = 5 * time.Second

// DeviceCode is the device authorization response.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// PollInterval is the server interval as a duration, DefaultInterval when absent.
func (d *DeviceCode) PollInterval() time.Duration {
	if d.Interval <= 0 {
		return DefaultInterval
	}
	return time.Duration(d.Interval) * time.Second
}

// Lifetime is how long the device code stays valid after issue.
func (d *DeviceCode) Lifetime() time.Duration {
	return time.Duration(d.ExpiresIn) * time.Second
}

type Flow struct {
	config *oauth.Config
	doer   httpclient.Doer
}

func NewFlow(config *oauth.Config, doer httpclient.Doer) *Flow {
	return &Flow{config: config, doer: doer}
}

// RequestDeviceCode starts an authorization. UserCode and VerificationURI must be shown to the user.
func (f *Flow) RequestDeviceCode(ctx context.Context) (*DeviceCode, error) {
	params := url.Values{
		"client_id": []string{f.config.ClientID()},
		"scope":     []string{f.config.ScopeString()},
	}

	resp, err := oauth.PostForm(ctx, f.doer, f.config.DeviceCodeURL(), params)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		err := interr.NewTokenExchangeError(ctx, interr.ErrDeviceCode, resp.StatusCode, string(resp.Body))
		logger.WithContext(ctx).Err(err).Msg("device: code request failed")
		return nil, err
	}

	if _, err := oauth.DecodeObject(resp.Body); err != nil {
		return nil, interr.NewRequestError(ctx, interr.ErrInvalidOAuthJSON, err)
	}

	var code DeviceCode
	if err := json.Unmarshal(resp.Body, &code); err != nil {
		return nil, interr.NewRequestError(ctx, interr.ErrInvalidOAuthJSON, err)
	}

	return &code, nil
}

// PollForToken asks whether the user has approved deviceCode. It returns (nil, nil) while
// authorization is pending. Every other non-200 answer, slow_down and expired_token included, is an error.
func (f *Flow) PollForToken(ctx context.Context, deviceCode string) (*oauth.AccessToken, error) {
	params := url.Values{
		"grant_type":  []string{oauth.GrantTypeDeviceCode},
		"device_code": []string{deviceCode},
		"client_id":   []string{f.config.ClientID()},
	}

	resp, err := oauth.PostForm(ctx, f.doer, f.config.TokenURL(), params)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		data, err := oauth.DecodeObject(resp.Body)
		if err != nil {
			return nil, interr.NewRequestError(ctx, interr.ErrInvalidOAuthJSON, err)
		}
		return oauth.AccessTokenFromMap(data), nil
	}

	if data, err := oauth.DecodeObject(resp.Body); err == nil && data["error"] == ErrorAuthorizationPending {
		logger.WithContext(ctx).Debug().Msg("device: authorization pending")
		return nil, nil
	}

	err = interr.NewTokenExchangeError(ctx, interr.ErrDevicePoll, resp.StatusCode, string(resp.Body))
	logger.WithContext(ctx).Err(err).Msg("device: token poll failed")
	return nil, err
}
