package keybackend

import "errors"

// ErrKeyNotFound is returned when no key with the requested key id exists in the set.
var ErrKeyNotFound = errors.New("signing key not found")
