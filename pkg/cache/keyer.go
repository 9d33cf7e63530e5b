package cache

// Keyer builds cache keys for each kind of cached value.
type Keyer interface {
	// AdvisoryKey identifies an OSV response for an exact package version.
	AdvisoryKey(pkg, version string) string
	// LayoutKey identifies a tower computed from the given input hash.
	LayoutKey(inputHash string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AdvisoryKey returns "advisory:npm:<pkg>@<version>".
func (DefaultKeyer) AdvisoryKey(pkg, version string) string {
	return "advisory:npm:" + pkg + "@" + version
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(inputHash string) string {
	return "layout:" + inputHash
}
