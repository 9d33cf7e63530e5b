package severity

import (
	"slices"

	"github.com/matzehuels/jengatower/pkg/integrations/osv"
)

// Vulnerability is a classified advisory.
type Vulnerability struct {
	ID         string   `json:"id" bson:"id"`
	Summary    string   `json:"summary,omitempty" bson:"summary,omitempty"`
	Aliases    []string `json:"aliases,omitempty" bson:"aliases,omitempty"`
	Severity   Severity `json:"severity" bson:"severity"`
	References []string `json:"references,omitempty" bson:"references,omitempty"`
}

// PackageVulnerability is the assessment of one declared dependency.
type PackageVulnerability struct {
	PackageName     string          `json:"package_name" bson:"package_name"`
	Version         string          `json:"version" bson:"version"`
	MaxSeverity     Severity        `json:"max_severity" bson:"max_severity"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities" bson:"vulnerabilities"`
	// LookupFailed marks a package whose advisory lookup did not complete.
	// Its severity is Safe but unverified.
	LookupFailed bool `json:"lookup_failed,omitempty" bson:"lookup_failed,omitempty"`
}

// Aggregate classifies every entry of resp and returns the worst severity
// with the entries sorted worst-first, then by ID. It returns [Safe] and an
// empty slice when resp has no entries.
func Aggregate(resp osv.Response) (Severity, []Vulnerability) {
	vulns := make([]Vulnerability, 0, len(resp.Vulns))
	worst := Safe
	for _, v := range resp.Vulns {
		s := Classify(v)
		worst = Max(worst, s)
		vulns = append(vulns, Vulnerability{
			ID:         v.ID,
			Summary:    v.Summary,
			Aliases:    v.Aliases,
			Severity:   s,
			References: referenceURLs(v.References),
		})
	}
	slices.SortStableFunc(vulns, func(a, b Vulnerability) int {
		if a.Severity != b.Severity {
			return int(b.Severity) - int(a.Severity)
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return worst, vulns
}

// Assess builds the record for one dependency from its advisory response.
func Assess(name, versionSpec string, resp osv.Response) PackageVulnerability {
	worst, vulns := Aggregate(resp)
	return PackageVulnerability{
		PackageName:     name,
		Version:         versionSpec,
		MaxSeverity:     worst,
		Vulnerabilities: vulns,
		LookupFailed:    resp.Failed,
	}
}

func referenceURLs(refs []osv.Reference) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.URL != "" {
			out = append(out, r.URL)
		}
	}
	return out
}
