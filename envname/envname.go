// Package envname turns secret names and JSON keys into environment variable
// names and tracks which names a run has already exported.
package envname

import (
	"strings"

	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
)

// Normalize maps s onto [A-Z0-9_]: every other character becomes '_',
// letters are uppercased, and a leading digit gets a '_' prefix.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 1)
	for i, r := range s {
		if i == 0 && r >= '0' && r <= '9' {
			b.WriteByte('_')
		}
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// IsValid reports whether s is already a normalized, non-empty name.
func IsValid(s string) bool {
	return s != "" && Normalize(s) == s
}

// ValidateAlias rejects aliases that are not valid environment names.
// The empty alias is valid: it means "no prefix".
func ValidateAlias(alias string) error {
	if alias == "" || IsValid(alias) {
		return nil
	}
	return errs.Newf(errs.CodeInvalidConfig,
		"The alias '%s' is not a valid environment name. Please verify that it has uppercase letters, numbers, and underscore only.",
		alias)
}

// ForSecret returns the variable name for a whole secret value: the alias
// when one is set, otherwise the normalized canonical name.
func ForSecret(canonicalName, alias string) string {
	if alias != "" {
		return alias
	}
	return Normalize(canonicalName)
}

// ForKey returns the variable name for one top-level key of a JSON secret.
// A non-empty alias replaces the secret name as prefix; an explicit empty
// alias (hasAlias with alias == "") drops the prefix entirely. Empty parts are
// skipped, so the result is empty when both prefix and key are.
func ForKey(canonicalName, alias string, hasAlias bool, key string) string {
	switch {
	case alias != "":
		return join(alias, key)
	case hasAlias:
		return join("", key)
	default:
		return join(Normalize(canonicalName), key)
	}
}

func join(prefix, key string) string {
	switch {
	case key == "":
		return prefix
	case prefix == "":
		return Normalize(key)
	default:
		return Normalize(prefix + "_" + key)
	}
}

// EmptyNameError reports a JSON key of secret that maps to no variable name.
func EmptyNameError(secret string) error {
	return errs.Newf(errs.CodeInvalidInput,
		"The secret '%s' contains an empty JSON key that cannot be used as an environment name. Please use an alias.",
		secret)
}
