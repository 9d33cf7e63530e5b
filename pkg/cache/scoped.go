package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments (or a
// test and a developer) can share one Redis or Mongo instance:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//	staging.AdvisoryKey("lodash", "4.17.21")  // "staging:advisory:npm:lodash@4.17.21"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AdvisoryKey generates a prefixed advisory key.
func (k *ScopedKeyer) AdvisoryKey(pkg, version string) string {
	return k.prefix + k.inner.AdvisoryKey(pkg, version)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(inputHash string) string {
	return k.prefix + k.inner.LayoutKey(inputHash)
}
