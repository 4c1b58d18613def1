package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/teamreflex/challonge-go/httpclient"
	interr "github.com/teamreflex/challonge-go/internal/errors"
	"github.com/teamreflex/challonge-go/logger"
)

// Grant types sent to the token endpoint
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeClientCredentials = "client_credentials"
	GrantTypeDeviceCode        = "urn:ietf:params:oauth:grant-type:device_code"
)

// PostForm sends params form-encoded to endpoint and returns the raw response whatever its status.
func PostForm(ctx context.Context, doer httpclient.Doer, endpoint string, params url.Values) (*httpclient.Response, error) {
	req := &httpclient.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: http.Header{
			"Content-Type": []string{"application/x-www-form-urlencoded"},
			"Accept":       []string{"application/json"},
		},
		Body: []byte(params.Encode()),
	}

	logger.WithContext(ctx).Debug().
		Str("endpoint", endpoint).
		Str("grantType", params.Get("grant_type")).
		Msg("oauth: sending request")

	resp, err := doer.Do(ctx, req)
	if err != nil {
		return nil, interr.NewRequestError(ctx, interr.ErrRequestSend, err)
	}

	logger.WithContext(ctx).Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Msg("oauth: received response")

	return resp, nil
}

// RequestToken posts params to the token endpoint. Anything but a 200 carrying a JSON object fails.
func RequestToken(ctx context.Context, doer httpclient.Doer, endpoint string, params url.Values) (*AccessToken, error) {
	resp, err := PostForm(ctx, doer, endpoint, params)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		err := interr.NewTokenExchangeError(ctx, interr.ErrTokenRequest, resp.StatusCode, string(resp.Body))
		logger.WithContext(ctx).Err(err).Str("grantType", params.Get("grant_type")).Msg("oauth: token request failed")
		return nil, err
	}

	data, err := DecodeObject(resp.Body)
	if err != nil {
		return nil, interr.NewRequestError(ctx, interr.ErrInvalidOAuthJSON, err)
	}

	return AccessTokenFromMap(data), nil
}

// DecodeObject parses body as a JSON object. Arrays, scalars and null are rejected.
func DecodeObject(body []byte) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.WithStack(err)
	}
	if data == nil {
		return nil, errors.New("JSON body is not an object")
	}
	return data, nil
}
