package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	apperr "github.com/matzehuels/jengatower/pkg/errors"
	"github.com/matzehuels/jengatower/pkg/severity"
)

// ReadReport decodes the packages of a saved analysis. It accepts a full
// [Result] document or a bare JSON array of packages.
func ReadReport(r io.Reader) ([]severity.PackageVulnerability, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read report")
	}
	data = bytes.TrimSpace(data)

	var pkgs []severity.PackageVulnerability
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &pkgs); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode report")
		}
		return pkgs, validatePackages(pkgs)
	}

	var doc struct {
		Packages *[]severity.PackageVulnerability `json:"packages"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode report")
	}
	if doc.Packages == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "report has no packages field")
	}
	return *doc.Packages, validatePackages(*doc.Packages)
}

// validatePackages checks names and that every MaxSeverity is the worst
// severity of its entries, safe only when there are none.
func validatePackages(pkgs []severity.PackageVulnerability) error {
	for i, p := range pkgs {
		if err := apperr.ValidatePackageName(p.PackageName); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "report package %d", i)
		}
		worst := severity.Safe
		for _, v := range p.Vulnerabilities {
			if v.Severity == severity.Safe {
				return apperr.New(apperr.ErrCodeInvalidInput,
					"report package %d (%s): vulnerability %q has severity safe", i, p.PackageName, v.ID)
			}
			worst = severity.Max(worst, v.Severity)
		}
		if p.MaxSeverity != worst {
			return apperr.New(apperr.ErrCodeInvalidInput,
				"report package %d (%s): max_severity %s does not match its %d vulnerabilities (worst %s)",
				i, p.PackageName, p.MaxSeverity, len(p.Vulnerabilities), worst)
		}
	}
	return nil
}

// ReadReportFile reads a saved analysis from path.
func ReadReportFile(path string) ([]severity.PackageVulnerability, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "open report")
	}
	defer f.Close()
	return ReadReport(f)
}

// WriteResult writes r as indented JSON.
func WriteResult(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
