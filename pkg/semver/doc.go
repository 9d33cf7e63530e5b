// Package semver reduces npm version specifiers to exact, queryable versions.
//
// Advisory databases answer "is version X of package P affected?", so a
// manifest entry like "^16.1.1" has to be narrowed to "16.1.1" before it can be
// looked up. Specifiers that name a tag, a wildcard, or a genuine range have no
// single version to ask about and are reported as unresolvable:
//
//	v, ok := semver.Normalize("^16.1.1")  // "16.1.1", true
//	_, ok = semver.Normalize("latest")    // "", false
//	_, ok = semver.Normalize(">=1 <2")    // "", false
//
// [Normalize] is pure and idempotent: feeding its output back in returns the
// same version.
package semver
