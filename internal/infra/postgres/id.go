package postgres

import (
	"crypto/rand"
	"encoding/hex"
)

func newID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
