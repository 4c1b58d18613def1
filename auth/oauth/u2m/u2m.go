// Package u2m implements the authorization code grant.
//
// Websites and apps running where a browser is available send the user to AuthorizationURL,
// receive the code on the redirect URI and trade it with ExchangeCode. Access tokens last one
// week and come with a refresh token that Refresh trades for a new token.
package u2m

import (
	"context"
	"net/url"
	"strings"

	"github.com/teamreflex/challonge-go/auth/oauth"
	"github.com/teamreflex/challonge-go/httpclient"
)

type Flow struct {
	config *oauth.Config
	doer   httpclient.Doer
}

func NewFlow(config *oauth.Config, doer httpclient.Doer) *Flow {
	return &Flow{config: config, doer: doer}
}

// AuthorizationURL returns the page to redirect the user to. Keys in extra, typically state,
// are added to the query and replace the defaults on collision.
func (f *Flow) AuthorizationURL(extra url.Values) string {
	params := url.Values{
		"client_id":     []string{f.config.ClientID()},
		"redirect_uri":  []string{f.config.RedirectURI()},
		"response_type": []string{"code"},
		"scope":         []string{f.config.ScopeString()},
	}
	for k, vs := range extra {
		params[k] = append([]string(nil), vs...)
	}

	sep := "?"
	if strings.Contains(f.config.AuthorizeURL(), "?") {
		sep = "&"
	}
	return f.config.AuthorizeURL() + sep + params.Encode()
}

// ExchangeCode trades the code received on the redirect URI for a token.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (*oauth.AccessToken, error) {
	params := url.Values{
		"grant_type":    []string{oauth.GrantTypeAuthorizationCode},
		"code":          []string{code},
		"redirect_uri":  []string{f.config.RedirectURI()},
		"client_id":     []string{f.config.ClientID()},
		"client_secret": []string{f.config.ClientSecret()},
	}

	return oauth.RequestToken(ctx, f.doer, f.config.TokenURL(), params)
}

// Refresh trades a refresh token for a new token. The caller stores the result,
// e.g. with auth.OAuthTokenAuth.UpdateAccessToken.
func (f *Flow) Refresh(ctx context.Context, refreshToken string) (*oauth.AccessToken, error) {
	params := url.Values{
		"grant_type":    []string{oauth.GrantTypeRefreshToken},
		"refresh_token": []string{refreshToken},
		"client_id":     []string{f.config.ClientID()},
		"client_secret": []string{f.config.ClientSecret()},
	}

	return oauth.RequestToken(ctx, f.doer, f.config.TokenURL(), params)
}
