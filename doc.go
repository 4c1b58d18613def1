/*
Package challonge is the authentication and transport core of a Go client for the Challonge API v2.1.

# Authentication

Requests are authenticated either with a v1 API key:

	client := challonge.NewClient(nil, auth.NewAPIKeyAuth(os.Getenv("CHALLONGE_API_KEY")))

or with an OAuth access token obtained from one of the flows under auth/oauth:

	config := oauth.NewConfig(clientID, clientSecret,
		oauth.WithRedirectURI("https://example.com/callback"),
		oauth.WithScopes(oauth.ScopeMe, oauth.ScopeTournamentsRead))

	flow := u2m.NewFlow(config, httpclient.NewDoer(nil))
	http.Redirect(w, r, flow.AuthorizationURL(url.Values{"state": {state}}), http.StatusFound)

	// on the redirect URI
	token, err := flow.ExchangeCode(ctx, r.URL.Query().Get("code"))
	if err != nil {
		log.Fatal(err)
	}
	provider := auth.NewOAuthTokenAuth(token)
	client := challonge.NewClient(nil, provider)

Tokens last one week. When a token carries a refresh token, trade it with u2m.Flow.Refresh and store the
new token with provider.UpdateAccessToken. Applications acting on their own behalf use m2m.Flow, and
devices without a browser use device.Flow.

# Requests

Client.Request takes a path relative to the API version:

	payload, err := client.Get(ctx, "tournaments", url.Values{"page": {"1"}})

	payload, err = client.Post(ctx, "tournaments", challonge.NewResourceRequest("Tournaments", map[string]interface{}{
		"name":            "Friday Night",
		"tournament_type": "double elimination",
	}))

The payload is the decoded JSON document. The decoding of resources into typed records is left to the caller.

# Errors

Non-2xx responses are classified into one of six kinds that can be tested with errors.Is:

	if errors.Is(err, chalerr.ValidationError) {
		var vf chalerr.ValidationFailure
		if errors.As(err, &vf) {
			for _, e := range vf.Errors() {
				...
			}
		}
	}

The mapping from status code is:

  - 400, 422: ValidationError
  - 401, 403: UnauthorizedError
  - 404: NotFoundError
  - 406, 415: InvalidFormatError
  - 500, 502, 503, 504: ServerError
  - anything else: UnexpectedError

Non-200 answers from the OAuth endpoints are TokenExchangeError and carry the status and raw body.
Requests that could not be sent and success bodies that are not JSON objects are RequestError.

# Transport

The client performs no retries and no caching. Pass an httpclient.Doer to control timeouts, retries and
TLS; httpclient.NewRetryingDoer wraps github.com/hashicorp/go-retryablehttp.

# Logging

The logger package uses github.com/rs/zerolog and logs warnings and errors by default. Call
logger.SetLogLevel(zerolog.DebugLevel) to log every request. A correlation id added with
challongectx.NewContextWithCorrelationId appears as corrId in log lines and in errors.
*/
package challonge
