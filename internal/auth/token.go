package auth

import (
	"strings"

	"github.com/google/uuid"
)

// NewSessionToken mints a token for logins that do not come with a provider-issued one.
func NewSessionToken() string {
	return "st_" + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
