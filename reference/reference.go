// Package reference parses secret reference lines of the form
//
//	[ALIAS,]LOCATOR
//
// where LOCATOR is a secret name, a secret ARN, or a name prefix ending in '*'.
package reference

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// WildcardMarker terminates a prefix locator.
const WildcardMarker = "*"

// Locator identifies one secret or, when IsWildcard, a set of secrets by prefix.
type Locator struct {
	Raw        string
	IsARN      bool
	IsWildcard bool
}

// Prefix returns the name prefix of a wildcard locator, or Raw otherwise.
func (l Locator) Prefix() string {
	if !l.IsWildcard {
		return l.Raw
	}
	return strings.TrimSuffix(l.Raw, WildcardMarker)
}

// Reference is a parsed configuration line.
type Reference struct {
	// Alias is the text before the first comma. It is empty both when there is
	// no comma and when the line starts with one; HasAlias tells them apart.
	Alias    string
	HasAlias bool
	Locator  Locator
}

// Parse splits line into an optional alias and a locator. It never fails;
// malformed aliases are rejected by configuration validation.
func Parse(line string) Reference {
	line = strings.TrimSpace(line)

	var ref Reference
	raw := line
	if alias, rest, ok := strings.Cut(line, ","); ok {
		ref.Alias = strings.TrimSpace(alias)
		ref.HasAlias = true
		raw = strings.TrimSpace(rest)
	}

	ref.Locator = Locator{Raw: raw}
	switch {
	case IsSecretARN(raw):
		ref.Locator.IsARN = true
	case strings.HasSuffix(raw, WildcardMarker):
		ref.Locator.IsWildcard = true
	}
	return ref
}

// IsSecretARN reports whether s is a Secrets Manager secret ARN.
func IsSecretARN(s string) bool {
	if !arn.IsARN(s) {
		return false
	}
	parsed, err := arn.Parse(s)
	if err != nil {
		return false
	}
	return parsed.Service == "secretsmanager" && strings.HasPrefix(parsed.Resource, "secret:")
}

// String renders the reference back into its line form.
func (r Reference) String() string {
	if r.HasAlias {
		return r.Alias + "," + r.Locator.Raw
	}
	return r.Locator.Raw
}

// ParseAll parses lines, skipping blank ones, and removes duplicate
// references keeping the first occurrence.
func ParseAll(lines []string) []Reference {
	refs := make([]Reference, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		refs = append(refs, Parse(line))
	}
	return Dedupe(refs)
}

// Dedupe removes references with the same alias and locator, preserving the
// order of first appearance.
func Dedupe(refs []Reference) []Reference {
	seen := make(map[Reference]struct{}, len(refs))
	out := make([]Reference, 0, len(refs))
	for _, r := range refs {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
