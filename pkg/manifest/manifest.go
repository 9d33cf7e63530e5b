// Package manifest parses npm package.json documents into an ordered list
// of direct dependencies.
//
// Order matters downstream: the tower places packages in the order they are
// declared, so the parser walks the JSON token stream instead of decoding
// into maps. Production dependencies come first, then devDependencies, each
// in document order.
package manifest

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	apperr "github.com/matzehuels/jengatower/pkg/errors"
)

// Defaults applied when package.json omits name or version.
const (
	DefaultName    = "unknown"
	DefaultVersion = "0.0.0"
)

// Dependency is one declared direct dependency.
type Dependency struct {
	Name        string `json:"name" bson:"name"`
	VersionSpec string `json:"version" bson:"version"`
	IsDev       bool   `json:"is_dev" bson:"is_dev"`
}

// Package is the parsed project manifest.
type Package struct {
	Name         string       `json:"name" bson:"name"`
	Version      string       `json:"version" bson:"version"`
	Dependencies []Dependency `json:"dependencies" bson:"dependencies"`
}

// Production returns the dependencies that are not dev-only.
func (p *Package) Production() []Dependency {
	var out []Dependency
	for _, d := range p.Dependencies {
		if !d.IsDev {
			out = append(out, d)
		}
	}
	return out
}

// Filter returns the dependency list with or without devDependencies.
func (p *Package) Filter(includeDev bool) []Dependency {
	if includeDev {
		return p.Dependencies
	}
	return p.Production()
}

// ParseFile reads and parses a package.json file.
func ParseFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read %s", path)
	}
	return ParsePackageJSON(string(data))
}

// ParsePackageJSON parses package.json text. The document must be an
// object; dependencies and devDependencies, when present, must map names to
// string version specs. All errors carry [apperr.ErrCodeInvalidManifest].
func ParsePackageJSON(text string) (*Package, error) {
	if err := apperr.ValidateManifestText(text); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(text))
	tok, err := dec.Token()
	if err != nil {
		return nil, invalidJSON(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, apperr.New(apperr.ErrCodeInvalidManifest, "package.json must be a JSON object")
	}

	pkg := &Package{Name: DefaultName, Version: DefaultVersion}
	var prod, dev []Dependency
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}
		key, _ := keyTok.(string)

		switch key {
		case "name", "version":
			s, err := readString(dec, key)
			if err != nil {
				return nil, err
			}
			if key == "name" {
				pkg.Name = s
			} else {
				pkg.Version = s
			}
		case "dependencies":
			if prod, err = readDeps(dec, key, false); err != nil {
				return nil, err
			}
		case "devDependencies":
			if dev, err = readDeps(dec, key, true); err != nil {
				return nil, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, invalidJSON(err)
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, invalidJSON(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperr.New(apperr.ErrCodeInvalidManifest, "unexpected data after package.json object")
	}

	pkg.Dependencies = append(prod, dev...)
	return pkg, nil
}

// readString reads a string value. null is rejected like any other type.
func readString(dec *json.Decoder, field string) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", invalidJSON(err)
	}
	v, ok := tok.(string)
	if !ok {
		return "", apperr.New(apperr.ErrCodeInvalidManifest, "%s must be a string", field)
	}
	return v, nil
}

// readDeps reads a name -> spec object in document order. A repeated name
// keeps its first position and takes its last spec.
func readDeps(dec *json.Decoder, field string, isDev bool) ([]Dependency, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, invalidJSON(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, apperr.New(apperr.ErrCodeInvalidManifest, "%s must be an object", field)
	}

	var out []Dependency
	index := map[string]int{}
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}
		name, _ := nameTok.(string)

		specTok, err := dec.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}
		spec, ok := specTok.(string)
		if !ok {
			return nil, apperr.New(apperr.ErrCodeInvalidManifest, "%s.%s must be a string", field, name)
		}

		if i, seen := index[name]; seen {
			out[i].VersionSpec = spec
			continue
		}
		index[name] = len(out)
		out = append(out, Dependency{Name: name, VersionSpec: spec, IsDev: isDev})
	}
	if _, err := dec.Token(); err != nil {
		return nil, invalidJSON(err)
	}
	return out, nil
}

func invalidJSON(err error) error {
	return apperr.Wrap(apperr.ErrCodeInvalidManifest, err, "package.json is not valid JSON")
}
