package github

import (
	"testing"

	apperr "github.com/matzehuels/jengatower/pkg/errors"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		in        string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"https://github.com/vercel/next.js", "vercel", "next.js", false},
		{"https://github.com/facebook/react/", "facebook", "react", false},
		{"https://github.com/tanstack/react-query", "tanstack", "react-query", false},
		{"  https://github.com/a/b  ", "a", "b", false},
		{"owner/repo", "owner", "repo", false},
		{"https://gitlab.com/owner/repo", "", "", true},
		{"https://github.com/owner", "", "", true},
		{"https://github.com/vercel/next.js/tree/canary", "", "", true},
		{"http://github.com/vercel/next.js", "", "", true},
		{"https://github.com/-bad/repo", "", "", true},
		{"owner", "", "", true},
		{"owner/..", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepoURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !apperr.Is(err, apperr.ErrCodeInvalidRepo) {
					t.Errorf("error code = %q, want INVALID_REPO", apperr.GetCode(err))
				}
				return
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepoURL(%q) = %q, %q", tt.in, owner, repo)
			}
		})
	}
}

func TestValidateOwner(t *testing.T) {
	tests := []struct {
		owner   string
		wantErr bool
	}{
		{"matzehuels", false},
		{"a", false},
		{"my-org", false},
		{"", true},
		{"-leading", true},
		{"has_underscore", true},
		{"this-name-is-way-too-long-for-github-owners", true},
	}
	for _, tt := range tests {
		t.Run(tt.owner, func(t *testing.T) {
			if err := ValidateOwner(tt.owner); (err != nil) != tt.wantErr {
				t.Errorf("ValidateOwner(%q) error = %v, wantErr %v", tt.owner, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRepo(t *testing.T) {
	tests := []struct {
		repo    string
		wantErr bool
	}{
		{"next.js", false},
		{"my_repo", false},
		{"", true},
		{".", true},
		{"with space", true},
		{"slash/inside", true},
	}
	for _, tt := range tests {
		t.Run(tt.repo, func(t *testing.T) {
			if err := ValidateRepo(tt.repo); (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepo(%q) error = %v, wantErr %v", tt.repo, err, tt.wantErr)
			}
		})
	}
}
