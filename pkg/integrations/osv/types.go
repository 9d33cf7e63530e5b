package osv

// Query identifies one dependency as declared in package.json.
type Query struct {
	Name string
	// Version is the raw version spec, e.g. "^4.17.21".
	Version string
}

// Key returns the result-map key "name@versionSpec".
func (q Query) Key() string {
	return q.Name + "@" + q.Version
}

// Response is the advisory record for one query. An empty Vulns slice means
// no known vulnerabilities. Failed is set when the lookup did not produce an
// authoritative answer (network error, unexpected status, undecodable body);
// it is never serialized into the cache.
type Response struct {
	Vulns  []Vuln `json:"vulns,omitempty"`
	Failed bool   `json:"-"`
}

// Vuln is one OSV vulnerability entry. Only the fields used for severity
// classification and display are decoded.
type Vuln struct {
	ID               string         `json:"id" bson:"id"`
	Summary          string         `json:"summary,omitempty" bson:"summary,omitempty"`
	Details          string         `json:"details,omitempty" bson:"details,omitempty"`
	Aliases          []string       `json:"aliases,omitempty" bson:"aliases,omitempty"`
	Modified         string         `json:"modified,omitempty" bson:"modified,omitempty"`
	Published        string         `json:"published,omitempty" bson:"published,omitempty"`
	Severity         []Score        `json:"severity,omitempty" bson:"severity,omitempty"`
	Affected         []Affected     `json:"affected,omitempty" bson:"affected,omitempty"`
	References       []Reference    `json:"references,omitempty" bson:"references,omitempty"`
	DatabaseSpecific map[string]any `json:"database_specific,omitempty" bson:"database_specific,omitempty"`
}

// Score is a severity vector or numeric score, e.g. {"type":"CVSS_V3","score":"CVSS:3.1/AV:N/..."}.
type Score struct {
	Type  string `json:"type" bson:"type"`
	Score string `json:"score" bson:"score"`
}

// Affected describes one affected package entry.
type Affected struct {
	Package           Package        `json:"package" bson:"package"`
	EcosystemSpecific map[string]any `json:"ecosystem_specific,omitempty" bson:"ecosystem_specific,omitempty"`
	DatabaseSpecific  map[string]any `json:"database_specific,omitempty" bson:"database_specific,omitempty"`
}

// Package names a package in an ecosystem.
type Package struct {
	Name      string `json:"name" bson:"name"`
	Ecosystem string `json:"ecosystem" bson:"ecosystem"`
}

// Reference is a link attached to an advisory.
type Reference struct {
	Type string `json:"type" bson:"type"`
	URL  string `json:"url" bson:"url"`
}

type queryRequest struct {
	Package Package `json:"package"`
	Version string  `json:"version"`
}
