package memory

import (
	"crypto/rand"
	"encoding/hex"
)

// newID returns an opaque unique identifier, hex like a document-store
// object id.
func newID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
