package semver

import (
	"regexp"
	"strings"
)

// rangeOperators are stripped from the front of a specifier.
const rangeOperators = "^~><="

// combinator matches two tokens joined by whitespace, with or without an
// explicit && or || between them.
var combinator = regexp.MustCompile(`\S\s+((&&|\|\|)\s+)?\S`)

// tags are dist-tags that never resolve to a fixed version.
var tags = map[string]bool{
	"*":      true,
	"latest": true,
	"next":   true,
}

// Normalize reduces spec to an exact version. It returns ok=false when the
// specifier is a wildcard, a dist-tag, an x-range, a union or hyphen range, a
// whitespace-joined comparator set, or anything that does not start with a
// digit once leading range operators are removed.
func Normalize(spec string) (version string, ok bool) {
	s := strings.TrimSpace(spec)
	if unresolvable(s) {
		return "", false
	}
	s = strings.TrimLeft(s, rangeOperators)
	if s == "" || s[0] < '0' || s[0] > '9' {
		return "", false
	}
	return s, true
}

// IsResolvable reports whether [Normalize] would return a version for spec.
func IsResolvable(spec string) bool {
	_, ok := Normalize(spec)
	return ok
}

func unresolvable(s string) bool {
	return tags[s] ||
		strings.Contains(s, "*") ||
		strings.Contains(s, "x") ||
		strings.Contains(s, "||") ||
		strings.Contains(s, " - ") ||
		combinator.MatchString(s)
}
