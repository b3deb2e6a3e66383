package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credential is the service-account authorized key, loaded once at startup
// from a local JSON file. Immutable for the process lifetime.
type Credential struct {
	PrivateKey       string `json:"private_key"`
	KeyID            string `json:"id"`
	ServiceAccountID string `json:"service_account_id"`
	FolderID         string `json:"folder_id"`
	URLSecret        string `json:"url_secret,omitempty"`
}

// LoadCredential reads and validates the authorized key file. A missing file
// or missing required field is a fatal startup error.
func LoadCredential(path string) (*Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("invalid JSON in key file %s: %w", path, err)
	}

	if cred.PrivateKey == "" {
		return nil, fmt.Errorf("key file %s: private_key is required", path)
	}
	if cred.KeyID == "" {
		return nil, fmt.Errorf("key file %s: id is required", path)
	}
	if cred.ServiceAccountID == "" {
		return nil, fmt.Errorf("key file %s: service_account_id is required", path)
	}
	if cred.FolderID == "" {
		return nil, fmt.Errorf("key file %s: folder_id is required", path)
	}

	return &cred, nil
}
