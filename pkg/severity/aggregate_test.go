package severity

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jengatower/pkg/integrations/osv"
)

func dbSeverity(label string) map[string]any {
	return map[string]any{"severity": label}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		vuln osv.Vuln
		want Severity
	}{
		{
			name: "database_specific label",
			vuln: osv.Vuln{ID: "GHSA-1", DatabaseSpecific: dbSeverity("CRITICAL")},
			want: Critical,
		},
		{
			name: "moderate means medium",
			vuln: osv.Vuln{ID: "GHSA-2", DatabaseSpecific: dbSeverity("MODERATE")},
			want: Medium,
		},
		{
			name: "database_specific wins over score",
			vuln: osv.Vuln{
				DatabaseSpecific: dbSeverity("LOW"),
				Severity:         []osv.Score{{Type: "CVSS_V3", Score: "9.8"}},
			},
			want: Low,
		},
		{
			name: "affected ecosystem_specific",
			vuln: osv.Vuln{Affected: []osv.Affected{
				{EcosystemSpecific: dbSeverity("HIGH")},
			}},
			want: High,
		},
		{
			name: "worst affected entry",
			vuln: osv.Vuln{Affected: []osv.Affected{
				{DatabaseSpecific: dbSeverity("low")},
				{EcosystemSpecific: dbSeverity("critical")},
			}},
			want: Critical,
		},
		{
			name: "numeric score critical",
			vuln: osv.Vuln{Severity: []osv.Score{{Type: "CVSS_V3", Score: "9.1"}}},
			want: Critical,
		},
		{
			name: "numeric score high",
			vuln: osv.Vuln{Severity: []osv.Score{{Type: "CVSS_V3", Score: "7.0"}}},
			want: High,
		},
		{
			name: "numeric score medium",
			vuln: osv.Vuln{Severity: []osv.Score{{Type: "CVSS_V3", Score: "4"}}},
			want: Medium,
		},
		{
			name: "numeric score low",
			vuln: osv.Vuln{Severity: []osv.Score{{Type: "CVSS_V3", Score: "0.1"}}},
			want: Low,
		},
		{
			name: "vector string ignored",
			vuln: osv.Vuln{Severity: []osv.Score{{Type: "CVSS_V3", Score: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"}}},
			want: Low,
		},
		{
			name: "unknown label ignored",
			vuln: osv.Vuln{DatabaseSpecific: dbSeverity("UNKNOWN"), Severity: []osv.Score{{Score: "7.5"}}},
			want: High,
		},
		{
			name: "no severity information",
			vuln: osv.Vuln{ID: "OSV-0"},
			want: Low,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.vuln); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	resp := osv.Response{Vulns: []osv.Vuln{
		{ID: "B", DatabaseSpecific: dbSeverity("LOW")},
		{ID: "C", DatabaseSpecific: dbSeverity("HIGH"), References: []osv.Reference{{Type: "WEB", URL: "https://example.com/c"}}},
		{ID: "A", DatabaseSpecific: dbSeverity("HIGH")},
	}}

	worst, vulns := Aggregate(resp)
	if worst != High {
		t.Errorf("worst = %s, want high", worst)
	}

	want := []Vulnerability{
		{ID: "A", Severity: High},
		{ID: "C", Severity: High, References: []string{"https://example.com/c"}},
		{ID: "B", Severity: Low},
	}
	if diff := cmp.Diff(want, vulns); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateEmpty(t *testing.T) {
	worst, vulns := Aggregate(osv.Response{})
	if worst != Safe {
		t.Errorf("worst = %s, want safe", worst)
	}
	if vulns == nil || len(vulns) != 0 {
		t.Errorf("vulns = %#v, want empty non-nil slice", vulns)
	}
}

func TestAssess(t *testing.T) {
	tests := []struct {
		name       string
		resp       osv.Response
		wantSev    Severity
		wantCount  int
		wantFailed bool
	}{
		{"no advisories (404)", osv.Response{}, Safe, 0, false},
		{"lookup failed", osv.Response{Failed: true}, Safe, 0, true},
		{"unrated advisory", osv.Response{Vulns: []osv.Vuln{{ID: "X"}}}, Low, 1, false},
		{"critical", osv.Response{Vulns: []osv.Vuln{{ID: "X", DatabaseSpecific: dbSeverity("critical")}}}, Critical, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess("pkg", "^1.0.0", tt.resp)
			if got.PackageName != "pkg" || got.Version != "^1.0.0" {
				t.Errorf("identity = %s@%s", got.PackageName, got.Version)
			}
			if got.MaxSeverity != tt.wantSev {
				t.Errorf("MaxSeverity = %s, want %s", got.MaxSeverity, tt.wantSev)
			}
			if len(got.Vulnerabilities) != tt.wantCount {
				t.Errorf("vulns = %d, want %d", len(got.Vulnerabilities), tt.wantCount)
			}
			if got.LookupFailed != tt.wantFailed {
				t.Errorf("LookupFailed = %v, want %v", got.LookupFailed, tt.wantFailed)
			}
			// safe iff no entries
			if (got.MaxSeverity == Safe) != (len(got.Vulnerabilities) == 0) {
				t.Error("MaxSeverity must be safe exactly when there are no entries")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	pkgs := []PackageVulnerability{
		{PackageName: "a", MaxSeverity: Critical, Vulnerabilities: make([]Vulnerability, 2)},
		{PackageName: "b", MaxSeverity: High, Vulnerabilities: make([]Vulnerability, 1)},
		{PackageName: "c", MaxSeverity: Safe},
		{PackageName: "d", MaxSeverity: Safe, LookupFailed: true},
		{PackageName: "e", MaxSeverity: Low, Vulnerabilities: make([]Vulnerability, 1)},
	}
	got := Summarize(pkgs)
	want := Summary{Packages: 5, Critical: 1, High: 1, Low: 1, Safe: 2, LookupFailed: 1, Vulnerabilities: 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
	if got.Vulnerable() != 3 {
		t.Errorf("Vulnerable() = %d, want 3", got.Vulnerable())
	}
	if got.Count(Safe) != 2 || got.Count(Critical) != 1 {
		t.Error("Count() disagrees with fields")
	}
}
