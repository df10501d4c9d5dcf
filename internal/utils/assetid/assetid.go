package assetid

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

const prefix = "ast_"

// New returns an ast_* ULID string.
func New() string {
	return prefix + strings.ToLower(ulid.Make().String())
}

// IsValid reports whether the string is an ast_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, prefix) {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the ast_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, prefix)
	return ulid.ParseStrict(strings.ToUpper(value))
}
