// Package config loads the operator-edited variable set that drives template
// rendering. The file is a flat-ish YAML mapping; values may be strings,
// numbers, or nested mappings and are handed to the template engine as-is.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Well-known keys consumed outside of templates.
const (
	KeyFolderName    = "MYCONFIG_DIR"
	KeyAdminUsername = "ADMINISTRATOR_USERNAME"
	KeyAdminPassword = "ADMINISTRATOR_PASSWORD"
)

// Set holds the variable values for one run. It is loaded once at startup
// and only mutated to inject the interactively collected credentials.
type Set struct {
	values map[string]any
	source string
}

// Load reads a YAML variables file. The document must be a mapping.
func Load(path string) (*Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read variables file: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("config: %s defines no variables", path)
	}
	return &Set{values: values, source: path}, nil
}

// FromMap builds a Set directly from values, mainly for tests.
func FromMap(values map[string]any) *Set {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Set{values: copied}
}

// Values exposes the variable mapping for template rendering. Callers must
// treat the returned map as read-only.
func (s *Set) Values() map[string]any {
	return s.values
}

// SourcePath returns the path the set was loaded from, empty for FromMap.
func (s *Set) SourcePath() string {
	return s.source
}

// FolderName returns the archive folder prefix from MYCONFIG_DIR.
func (s *Set) FolderName() (string, error) {
	name, ok := s.values[KeyFolderName].(string)
	if !ok || name == "" {
		return "", fmt.Errorf("config: %s must be set to a non-empty string", KeyFolderName)
	}
	return name, nil
}

// SetCredentials injects the administrator account collected at run time.
func (s *Set) SetCredentials(username, password string) {
	s.values[KeyAdminUsername] = username
	s.values[KeyAdminPassword] = password
}
