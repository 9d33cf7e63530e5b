package severity

// Summary counts packages per severity.
type Summary struct {
	Packages        int `json:"packages"`
	Critical        int `json:"critical"`
	High            int `json:"high"`
	Medium          int `json:"medium"`
	Low             int `json:"low"`
	Safe            int `json:"safe"`
	LookupFailed    int `json:"lookup_failed"`
	Vulnerabilities int `json:"vulnerabilities"`
}

// Summarize counts pkgs by their MaxSeverity.
func Summarize(pkgs []PackageVulnerability) Summary {
	s := Summary{Packages: len(pkgs)}
	for _, p := range pkgs {
		switch p.MaxSeverity {
		case Critical:
			s.Critical++
		case High:
			s.High++
		case Medium:
			s.Medium++
		case Low:
			s.Low++
		default:
			s.Safe++
		}
		if p.LookupFailed {
			s.LookupFailed++
		}
		s.Vulnerabilities += len(p.Vulnerabilities)
	}
	return s
}

// Count returns the number of packages rated sev.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case Critical:
		return s.Critical
	case High:
		return s.High
	case Medium:
		return s.Medium
	case Low:
		return s.Low
	default:
		return s.Safe
	}
}

// Vulnerable returns the number of packages rated worse than safe.
func (s Summary) Vulnerable() int {
	return s.Critical + s.High + s.Medium + s.Low
}
