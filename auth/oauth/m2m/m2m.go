// Package m2m implements the client credentials grant.
//
// Servers, game servers and other machines you control use it to act on behalf of the
// developer application itself, e.g. to call application-scoped routes such as
// /application/tournaments.json. Challonge does not issue refresh tokens for this grant;
// request a new token when the current one expires.
package m2m

import (
	"context"
	"net/url"

	"github.com/teamreflex/challonge-go/auth/oauth"
	"github.com/teamreflex/challonge-go/httpclient"
	"github.com/teamreflex/challonge-go/logger"
	"golang.org/x/oauth2"
)

type Flow struct {
	config *oauth.Config
	doer   httpclient.Doer
}

func NewFlow(config *oauth.Config, doer httpclient.Doer) *Flow {
	return &Flow{config: config, doer: doer}
}

// AccessToken requests an application token with the configured scopes.
func (f *Flow) AccessToken(ctx context.Context) (*oauth.AccessToken, error) {
	params := url.Values{
		"grant_type":    []string{oauth.GrantTypeClientCredentials},
		"client_id":     []string{f.config.ClientID()},
		"client_secret": []string{f.config.ClientSecret()},
		"scope":         []string{f.config.ScopeString()},
	}

	token, err := oauth.RequestToken(ctx, f.doer, f.config.TokenURL(), params)
	if err != nil {
		return nil, err
	}

	if token.HasRefreshToken() {
		logger.WithContext(ctx).Debug().Msg("m2m: discarding refresh token sent for client credentials grant")
		opts := []oauth.TokenOption{oauth.WithCreatedAt(token.CreatedAt())}
		if scope, ok := token.Scope(); ok {
			opts = append(opts, oauth.WithScope(scope))
		}
		token = oauth.NewAccessToken(token.AccessToken(), token.TokenType(), token.ExpiresIn(), opts...)
	}

	logger.WithContext(ctx).Info().Msg("m2m: token fetched successfully")
	return token, nil
}

// TokenSource adapts the flow to golang.org/x/oauth2. Every Token call performs a grant;
// wrap it with oauth2.ReuseTokenSource to keep a token until it expires.
func (f *Flow) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, flow: f}
}

type tokenSource struct {
	ctx  context.Context
	flow *Flow
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.flow.AccessToken(ts.ctx)
	if err != nil {
		return nil, err
	}
	return token.ToOAuth2Token(), nil
}
