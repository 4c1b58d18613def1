package u2m

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// stateBytes of randomness encode to 43 base64url characters
const stateBytes = 32

// GenerateState returns a random value for the state parameter of AuthorizationURL.
// Compare it with the state echoed back on the redirect to reject forged callbacks.
func GenerateState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("unable to generate random state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
