package challonge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/teamreflex/challonge-go/auth"
	"github.com/teamreflex/challonge-go/httpclient"
)

const (
	jsonExtension   = ".json"
	jsonAPIMimeType = "application/vnd.api+json"
	userAgentFormat = "ChallongeGo/%s (https://github.com/teamreflex/challonge-go)"
)

func (c *Client) buildRequest(method, path string, body map[string]interface{}, query url.Values, provider auth.Provider) (*httpclient.Request, error) {
	req := &httpclient.Request{
		Method: method,
		URL:    buildURL(c.baseURL, path, query),
		Header: c.buildHeaders(provider),
	}

	if len(body) > 0 {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "unable to encode request body")
		}
		req.Body = b
	}

	return req, nil
}

// buildURL joins base, API version and path, adds ".json" unless the URL already ends with it,
// then appends the query.
func buildURL(baseURL, path string, query url.Values) string {
	u := strings.TrimRight(baseURL, "/") + "/" + APIVersion + "/" + strings.TrimLeft(path, "/")
	if !strings.HasSuffix(u, jsonExtension) {
		u += jsonExtension
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) buildHeaders(provider auth.Provider) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", jsonAPIMimeType)
	auth.SetHeaders(h, provider)
	h.Set("User-Agent", fmt.Sprintf(userAgentFormat, c.version))
	return h
}

// NewResourceRequest builds the JSON:API request document {"data": {"type": ..., "attributes": ...}}.
func NewResourceRequest(resourceType string, attributes map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"type":       resourceType,
			"attributes": attributes,
		},
	}
}
