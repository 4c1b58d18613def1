package challonge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	chalerr "github.com/teamreflex/challonge-go/errors"
	"github.com/teamreflex/challonge-go/httpclient"
	interr "github.com/teamreflex/challonge-go/internal/errors"
	"github.com/teamreflex/challonge-go/logger"
)

// Payload is a decoded response document. Numbers are json.Number.
type Payload map[string]interface{}

// Data returns the "data" member of a JSON:API document, or the whole document when it has none.
func (p Payload) Data() interface{} {
	if data, ok := p["data"]; ok {
		return data
	}
	return map[string]interface{}(p)
}

func handleResponse(ctx context.Context, resp *httpclient.Response) (Payload, error) {
	status := resp.StatusCode

	if status >= 200 && status < 300 {
		if status == http.StatusNoContent || len(resp.Body) == 0 {
			return Payload{}, nil
		}

		doc, err := decodeDocument(resp.Body)
		if err != nil {
			return nil, interr.NewRequestError(ctx, interr.ErrInvalidJSON, err)
		}
		return Payload(doc), nil
	}

	// an unreadable error body is treated as absent
	doc, err := decodeDocument(resp.Body)
	if err != nil {
		doc = nil
	}

	err = classify(ctx, status, doc)
	logger.WithContext(ctx).Debug().Err(err).Int("status", status).Msg("challonge: api error")
	return nil, err
}

func classify(ctx context.Context, status int, doc map[string]interface{}) error {
	switch status {
	case http.StatusBadRequest:
		msg := formatErrorMessage(doc, "Bad Request - Invalid parameters or payload format")
		return interr.NewValidationError(ctx, status, msg, nil)
	case http.StatusUnauthorized:
		msg := formatErrorMessage(doc, "Unauthorized - Invalid authentication credentials")
		return interr.NewAPIError(ctx, chalerr.KindUnauthorized, status, msg)
	case http.StatusForbidden:
		msg := formatErrorMessage(doc, "Forbidden - Missing required permissions")
		return interr.NewAPIError(ctx, chalerr.KindUnauthorized, status, msg)
	case http.StatusNotFound:
		msg := formatErrorMessage(doc, "Not Found - Resource does not exist")
		return interr.NewAPIError(ctx, chalerr.KindNotFound, status, msg)
	case http.StatusNotAcceptable:
		msg := formatErrorMessage(doc, "Not Acceptable - Invalid content type")
		return interr.NewAPIError(ctx, chalerr.KindInvalidFormat, status, msg)
	case http.StatusUnsupportedMediaType:
		msg := formatErrorMessage(doc, "Unsupported Media Type")
		return interr.NewAPIError(ctx, chalerr.KindInvalidFormat, status, msg)
	case http.StatusUnprocessableEntity:
		msg := formatErrorMessage(doc, "Unprocessable Entity - Validation errors")
		return interr.NewValidationError(ctx, status, msg, errorEntries(doc))
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		msg := formatErrorMessage(doc, fmt.Sprintf("Server error (%d)", status))
		return interr.NewAPIError(ctx, chalerr.KindServer, status, msg)
	default:
		msg := formatErrorMessage(doc, fmt.Sprintf("Unexpected error (%d)", status))
		return interr.NewUnexpectedError(ctx, status, msg, doc)
	}
}

// formatErrorMessage joins the details of the "errors" entries with "; ", each followed by
// " (field: <pointer>)" when the entry has a source pointer. Without usable entries it falls back
// to the top level "message" and then to fallback.
func formatErrorMessage(doc map[string]interface{}, fallback string) string {
	if doc == nil {
		return fallback
	}

	var messages []string
	for _, entry := range errorEntries(doc) {
		if entry.Detail == nil {
			continue
		}
		msg := *entry.Detail
		if entry.Pointer != nil {
			msg += fmt.Sprintf(" (field: %s)", *entry.Pointer)
		}
		messages = append(messages, msg)
	}
	if msg := strings.Join(messages, "; "); msg != "" {
		return msg
	}

	if v, ok := doc["message"]; ok && v != nil {
		if msg := fmt.Sprint(v); msg != "" {
			return msg
		}
	}

	return fallback
}

// errorEntries returns the object members of the "errors" list in order.
func errorEntries(doc map[string]interface{}) []chalerr.ErrorEntry {
	list, ok := doc["errors"].([]interface{})
	if !ok {
		return nil
	}

	entries := make([]chalerr.ErrorEntry, 0, len(list))
	for _, item := range list {
		raw, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		entry := chalerr.ErrorEntry{Raw: raw}
		if v, ok := raw["detail"]; ok && v != nil {
			detail := fmt.Sprint(v)
			entry.Detail = &detail
		}
		if source, ok := raw["source"].(map[string]interface{}); ok {
			if v, ok := source["pointer"]; ok && v != nil {
				pointer := fmt.Sprint(v)
				entry.Pointer = &pointer
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// decodeDocument parses body as exactly one JSON object.
func decodeDocument(body []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WithStack(err)
	}
	if doc == nil {
		return nil, errors.New("JSON document is not an object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON document")
	}
	return doc, nil
}
