// Package keybackend provides SecretStore implementations that resolve HMAC
// signing secrets by key id.
package keybackend

import (
	"fmt"
	"sort"
)

// MapSecretStore retrieves secrets from an in-memory map.
type MapSecretStore struct {
	keys map[string]string
}

func NewMapSecretStore(keys map[string]string) *MapSecretStore {
	return &MapSecretStore{keys: keys}
}

// Lookup returns the secret registered under keyID.
func (s *MapSecretStore) Lookup(keyID string) (string, error) {
	secret, found := s.keys[keyID]
	if !found {
		return "", fmt.Errorf("lookup %q: %w", keyID, ErrKeyNotFound)
	}
	return secret, nil
}

// KeyIDs returns the registered key ids in sorted order.
func (s *MapSecretStore) KeyIDs() []string {
	ids := make([]string, 0, len(s.keys))
	for id := range s.keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
