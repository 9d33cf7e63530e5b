package severity

import (
	"fmt"
	"strings"
)

// Severity is the worst-case rating of an advisory or package.
type Severity uint8

const (
	Safe Severity = iota
	Low
	Medium
	High
	Critical
)

// All lists severities from best to worst.
var All = []Severity{Safe, Low, Medium, High, Critical}

var names = [...]string{"safe", "low", "medium", "high", "critical"}

// Pastel palette used by renderers and the CLI table.
var colors = [...]string{"#a8e6cf", "#b8e6b8", "#fce588", "#fbc79a", "#f8a5a5"}

// Rank returns an integer rank for comparison (Safe=0, Critical=4).
func (s Severity) Rank() int {
	return int(s)
}

func (s Severity) String() string {
	if int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

// Color returns the hex display color for s.
func (s Severity) Color() string {
	if int(s) < len(colors) {
		return colors[s]
	}
	return colors[Safe]
}

// Vulnerable reports whether s is worse than [Safe].
func (s Severity) Vulnerable() bool {
	return s > Safe
}

// Parse parses a severity label case-insensitively.
// Accepts "moderate" as medium.
func Parse(label string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "safe":
		return Safe, nil
	case "low":
		return Low, nil
	case "medium", "moderate":
		return Medium, nil
	case "high":
		return High, nil
	case "critical":
		return Critical, nil
	default:
		return Safe, fmt.Errorf("invalid severity: %q", label)
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) {
	if int(s) >= len(names) {
		return nil, fmt.Errorf("invalid severity: %d", uint8(s))
	}
	return []byte(names[s]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Max returns the worse of a and b.
func Max(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}
