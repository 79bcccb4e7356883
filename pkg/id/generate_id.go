package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
// Used for operator/request identifiers in the Ax-* headers.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewUUID returns a canonical lowercase UUIDv4 string. All ledger
// entities (investments, financings, installments, transactions) are
// keyed by these.
func NewUUID() string {
	return uuid.NewString()
}
