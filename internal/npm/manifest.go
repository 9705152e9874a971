// Package npm reads and validates npm package manifests.
package npm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/felixgeelhaar/prepub/internal/errors"
)

// ManifestFile is the canonical manifest filename.
const ManifestFile = "package.json"

// RequiredFields are the manifest fields a publishable CLI package must
// declare.
var RequiredFields = []string{"name", "version", "bin", "main"}

// Manifest is a parsed package.json, limited to the fields prepub
// verifies.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main"`

	// Bin is normalized to command-name -> script-path regardless of
	// whether package.json used the string or the object form.
	Bin map[string]string `json:"-"`

	// Path is where the manifest was loaded from.
	Path string `json:"-"`
}

// rawManifest defers bin decoding: npm allows both a bare string and an
// object of command names to paths.
type rawManifest struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Main    string          `json:"main"`
	Bin     json.RawMessage `json:"bin"`
}

// Load reads and parses the manifest in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewManifestNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read %s", path), err)
	}

	return Parse(data, path)
}

// Parse decodes manifest bytes. path is only used for error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "JSON", err)
	}

	m := &Manifest{
		Name:    raw.Name,
		Version: raw.Version,
		Main:    raw.Main,
		Path:    path,
	}

	if len(raw.Bin) > 0 {
		bin, err := decodeBin(raw.Bin, raw.Name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeManifestInvalid, fmt.Sprintf("invalid bin field in %s", path), err)
		}
		m.Bin = bin
	}

	return m, nil
}

func decodeBin(raw json.RawMessage, pkgName string) (map[string]string, error) {
	// String form: the package name is the command name.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil, nil
		}
		name := pkgName
		if name == "" {
			name = "cli"
		}
		return map[string]string{name: s}, nil
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("bin must be a string or an object of strings")
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}

// MissingFields returns the required fields absent from the manifest,
// in a stable order.
func (m *Manifest) MissingFields() []string {
	var missing []string
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Version == "" {
		missing = append(missing, "version")
	}
	if len(m.Bin) == 0 {
		missing = append(missing, "bin")
	}
	if m.Main == "" {
		missing = append(missing, "main")
	}
	sort.Strings(missing)
	return missing
}

// Validate returns an error naming the first missing required field.
func (m *Manifest) Validate() error {
	missing := m.MissingFields()
	if len(missing) == 0 {
		return nil
	}
	return errors.NewManifestFieldMissingError(missing[0])
}

// EntryPoint returns the script path npm will expose as the package
// command: the sole bin entry, or main as a fallback.
func (m *Manifest) EntryPoint() string {
	if len(m.Bin) == 1 {
		for _, path := range m.Bin {
			return path
		}
	}
	// Multiple bin entries: prefer the one matching the package name.
	if path, ok := m.Bin[m.Name]; ok {
		return path
	}
	return m.Main
}
