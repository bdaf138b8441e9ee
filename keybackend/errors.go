package keybackend

import "errors"

// ErrKeyNotFound is returned when no signing key is registered under a key id.
var ErrKeyNotFound = errors.New("signing key not found")
