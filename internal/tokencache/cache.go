// Package tokencache persists the exchanged IAM token between process
// invocations so the token endpoint is only hit when the cached token is
// missing or near expiry.
package tokencache

import (
	"encoding/json"
	"fmt"
	"os"

	"cnb.cool/zhiqiangwang/pkg/logx"
)

// Store loads and saves a single cached token record. At most one live record
// exists at a time; Save overwrites it wholesale. Load reports a cache miss as
// an empty token with zero expiry, never an error: cache failures always
// degrade to "no cached token".
type Store interface {
	// Load returns the cached token and its unix expiry, or ("", 0) on miss.
	Load() (token string, expiry int64)

	// Save overwrites the cached record. Callers log and swallow the error:
	// a failed save never blocks returning a token that is valid in memory.
	Save(token string, expiry int64) error
}

// cachedToken is the on-disk record. Field names kept for compatibility with
// caches written by earlier versions of this tool.
type cachedToken struct {
	JWT    string `json:"jwt"`
	Expiry int64  `json:"expiry"`
}

// FileStore keeps the record in a single JSON file. No locking: a concurrent
// refresh at worst rewrites the file with an equally valid token.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed token store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the cached token. A missing or unreadable file is a miss.
func (s *FileStore) Load() (string, int64) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logx.Warn("Failed to read token cache %s: %v", s.path, err)
		}
		return "", 0
	}

	var rec cachedToken
	if err := json.Unmarshal(data, &rec); err != nil {
		logx.Warn("Malformed token cache %s, treating as miss: %v", s.path, err)
		return "", 0
	}

	return rec.JWT, rec.Expiry
}

// Save overwrites the cache file with the new record.
func (s *FileStore) Save(token string, expiry int64) error {
	data, err := json.Marshal(cachedToken{JWT: token, Expiry: expiry})
	if err != nil {
		return fmt.Errorf("failed to encode token cache: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache %s: %w", s.path, err)
	}

	return nil
}
