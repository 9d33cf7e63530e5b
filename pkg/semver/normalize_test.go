package semver

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		spec   string
		want   string
		wantOK bool
	}{
		{"exact", "1.2.3", "1.2.3", true},
		{"caret", "^16.1.1", "16.1.1", true},
		{"tilde", "~2.0.0", "2.0.0", true},
		{"gte", ">=1.0.0", "1.0.0", true},
		{"lte", "<=3.1.4", "3.1.4", true},
		{"gt", ">0.9.0", "0.9.0", true},
		{"lt", "<5.0.0", "5.0.0", true},
		{"equals", "=4.17.21", "4.17.21", true},
		{"stacked operators", "^~>=1.0.0", "1.0.0", true},
		{"surrounding whitespace", "  ^1.2.3  ", "1.2.3", true},
		{"prerelease", "^1.0.0-beta.1", "1.0.0-beta.1", true},
		{"partial version", "^1.2", "1.2", true},
		{"wildcard", "*", "", false},
		{"workspace wildcard", "workspace:*", "", false},
		{"latest tag", "latest", "", false},
		{"next tag", "next", "", false},
		{"x range", "1.x", "", false},
		{"uppercase X is not an x range", "1.X.0", "1.X.0", true},
		{"union", "^1.0.0 || ^2.0.0", "", false},
		{"union without spaces", "1.0.0||2.0.0", "", false},
		{"hyphen range", "1.0.0 - 2.0.0", "", false},
		{"comparator set", ">=1.0.0 <2.0.0", "", false},
		{"and combinator", "1.0.0 && 2.0.0", "", false},
		{"git url", "git+https://github.com/user/repo.git", "", false},
		{"file path", "file:../local", "", false},
		{"npm alias", "npm:lodash@4", "", false},
		{"tag name", "beta", "", false},
		{"empty", "", "", false},
		{"only operators", "^~", "", false},
		{"space after operator", ">= 1.0.0", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.spec)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.spec, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeRejectsUnqueryableMarkers(t *testing.T) {
	for _, m := range []string{"*", "x", "||", " - "} {
		for _, spec := range []string{m, "1.0.0" + m + "2.0.0", "^1.0.0" + m + "2.0.0"} {
			if _, ok := Normalize(spec); ok {
				t.Errorf("Normalize(%q) should be unresolvable", spec)
			}
		}
	}
	for _, tag := range []string{"latest", " latest ", "next"} {
		if _, ok := Normalize(tag); ok {
			t.Errorf("Normalize(%q) should be unresolvable", tag)
		}
	}
}

func TestNormalizeStartsWithDigit(t *testing.T) {
	specs := []string{"^1.0.0", "~0.1.0", ">=10.0.0", "<=2.0.0", ">3.0.0", "<4.0.0", "=5.0.0", "6.0.0"}
	for _, spec := range specs {
		v, ok := Normalize(spec)
		if !ok {
			t.Errorf("Normalize(%q) unexpectedly unresolvable", spec)
			continue
		}
		if v[0] < '0' || v[0] > '9' {
			t.Errorf("Normalize(%q) = %q, want leading digit", spec, v)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	specs := []string{"^16.1.1", "~2.0.0", ">=1.0.0", " 3.4.5 ", "1.0.0-rc.1", "=0.0.1"}
	for _, spec := range specs {
		first, ok := Normalize(spec)
		if !ok {
			t.Fatalf("Normalize(%q) unexpectedly unresolvable", spec)
		}
		second, ok := Normalize(first)
		if !ok || second != first {
			t.Errorf("Normalize(Normalize(%q)) = (%q, %v), want (%q, true)", spec, second, ok, first)
		}
	}
}

func TestIsResolvable(t *testing.T) {
	if !IsResolvable("^1.0.0") {
		t.Error("IsResolvable(^1.0.0) = false, want true")
	}
	if IsResolvable("latest") {
		t.Error("IsResolvable(latest) = true, want false")
	}
}
