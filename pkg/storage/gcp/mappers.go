// File: pkg/storage/gcp/mappers.go
package gcp

import (
	"encoding/json"
	"fmt"
	"hubstore/internal/config"
	"hubstore/pkg/storage"
	"strings"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const tokenURI = "https://oauth2.googleapis.com/token"

// Maps listed object attributes to names relative to the listed prefix, keeping the order GCS returned
func mapObjectNames(prefix string, attrs []*gcpstorage.ObjectAttrs) []string {
	entries := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a == nil {
			continue
		}
		entries = append(entries, storage.StripPrefix(prefix, a.Name))
	}
	return entries
}

// Service account key in the JSON layout Google client libraries accept
type serviceAccountKey struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id,omitempty"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// Maps the configured credential material to client options. With nothing configured
// the client falls back to application default credentials.
func clientOptions(cfg *config.GCPConfig) ([]option.ClientOption, error) {
	switch {
	case cfg.PrivateKey != "":
		key := serviceAccountKey{
			Type:        "service_account",
			ProjectID:   cfg.ProjectID,
			ClientEmail: cfg.ClientEmail,
			// Keys passed through environment variables usually carry escaped newlines
			PrivateKey: strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
			TokenURI:   tokenURI,
		}
		data, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode inline GCP credentials: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(data)}, nil
	case cfg.KeyFile != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.KeyFile)}, nil
	default:
		return nil, nil
	}
}
