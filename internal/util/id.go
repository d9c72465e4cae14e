package util

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a prefixed random identifier for API-visible resources
// (workspaces, tokens).
func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}

// NewEntityID returns the identifier used for sub-entities embedded in a
// workspace document (products, segments, personas). Stable ids are what
// the reconciler matches on when merging sub-entity lists.
func NewEntityID() string {
	return uuid.NewString()
}
