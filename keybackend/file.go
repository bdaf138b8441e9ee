package keybackend

import (
	"encoding/json"
	"fmt"
	"os"
)

// SigningKey is a shared HMAC secret identified by the "kid" header of the
// tokens it signs.
type SigningKey struct {
	KeyID  string `json:"kid" mapstructure:"kid"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// LoadKeysFromFile loads signing keys from a JSON file holding an array:
//
//	[
//	  {"kid": "2026-10", "secret": "c2VjcmV0..."},
//	  {"kid": "2026-09", "secret": "b2xkZXI..."}
//	]
//
// Entries with an empty kid or secret are skipped. The last entry wins on
// duplicate ids.
func LoadKeysFromFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read keys file: %w", err)
	}

	var keys []SigningKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse keys file: %w", err)
	}

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if k.KeyID != "" && k.Secret != "" {
			out[k.KeyID] = k.Secret
		}
	}

	return out, nil
}
