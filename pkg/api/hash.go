package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ContentHash returns a BLAKE3 digest over kind, title, request and payload.
// Ids and timestamps are left out so identical generations hash the same.
func (d Draft) ContentHash() string {
	h := blake3.New()

	// Null bytes separate fields so ("ab","c") and ("a","bc") differ.
	h.Write([]byte(d.Kind))
	h.Write([]byte{0})

	h.Write([]byte(d.Title))
	h.Write([]byte{0})

	h.Write(d.Request)
	h.Write([]byte{0})

	h.Write(d.Payload)

	return hex.EncodeToString(h.Sum(nil))
}

// HashString is a BLAKE3 hex digest of s, used for ETags.
func HashString(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
