package severity

import (
	"strconv"
	"strings"

	"github.com/matzehuels/jengatower/pkg/integrations/osv"
)

// Classify returns the severity of a single OSV entry. It never returns
// [Safe]; an entry without a usable rating is [Low].
func Classify(v osv.Vuln) Severity {
	if s, ok := labelFrom(v.DatabaseSpecific); ok {
		return s
	}

	found := false
	worst := Low
	for _, a := range v.Affected {
		for _, m := range []map[string]any{a.EcosystemSpecific, a.DatabaseSpecific} {
			if s, ok := labelFrom(m); ok {
				worst = Max(worst, s)
				found = true
			}
		}
	}
	if found {
		return worst
	}

	for _, sc := range v.Severity {
		if s, ok := fromScore(sc.Score); ok {
			worst = Max(worst, s)
		}
	}
	return worst
}

func labelFrom(m map[string]any) (Severity, bool) {
	label, ok := m["severity"].(string)
	if !ok {
		return Safe, false
	}
	s, err := Parse(label)
	if err != nil || s == Safe {
		return Safe, false
	}
	return s, true
}

// fromScore maps a numeric CVSS base score. Vector strings are ignored.
func fromScore(raw string) (Severity, bool) {
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Safe, false
	}
	switch {
	case score >= 9:
		return Critical, true
	case score >= 7:
		return High, true
	case score >= 4:
		return Medium, true
	case score > 0:
		return Low, true
	default:
		return Safe, false
	}
}
