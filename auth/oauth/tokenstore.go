package oauth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teamreflex/challonge-go/logger"
)

// TokenStore persists the token a caller holds between runs.
type TokenStore interface {
	// Save stores a token
	Save(token *AccessToken) error

	// Load retrieves the stored token, or nil if none was saved
	Load() (*AccessToken, error)
}

// FileTokenStore implements TokenStore as a JSON file holding the token's flat map form
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Path() string {
	return s.path
}

// Save writes the token with owner-only permissions
func (s *FileTokenStore) Save(token *AccessToken) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token store directory: %w", err)
	}

	data, err := json.Marshal(token.ToMap())
	if err != nil {
		return fmt.Errorf("failed to serialize token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token to store: %w", err)
	}

	logger.Log.Debug().Str("path", s.path).Msg("Token saved to store")
	return nil
}

func (s *FileTokenStore) Load() (*AccessToken, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing stored yet
		}
		return nil, fmt.Errorf("failed to read token from store: %w", err)
	}

	m, err := DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize token: %w", err)
	}

	logger.Log.Debug().Str("path", s.path).Msg("Token loaded from store")
	return AccessTokenFromMap(m), nil
}

// Clear removes the stored token. Removing a missing file is not an error.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token store: %w", err)
	}
	return nil
}

// DefaultTokenStorePath returns the per-application token file under the user's config directory
func DefaultTokenStorePath(clientID string, scopes []string) string {
	h := sha256.New()
	h.Write([]byte(clientID))
	h.Write([]byte(strings.Join(scopes, ",")))
	hash := hex.EncodeToString(h.Sum(nil))

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".config", "challonge-go", "tokens", hash+".json")
}
