// Package id generates identifiers: UUIDs for shops and flavors, short
// prefixed NanoIDs for archived backups.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// New returns a random (version 4) UUID string.
func New() string {
	return uuid.NewString()
}

// Generate returns prefix-<nanoid>, e.g. "bak-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}
