package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns prefix followed by 12 random hex characters, e.g. "user_1a2b3c4d5e6f".
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
