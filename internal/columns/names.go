package columns

import (
	"regexp"
	"strings"

	"rnacolumns/pkg/domain"
)

const (
	// CookieJar is the store jar that holds column configurations.
	CookieJar = "web.rna.columns"
	// ConfigPrefix prefixes every configuration key in the jar.
	ConfigPrefix = "Columns."
	// DefaultConfiguration is the configuration used when none is named.
	DefaultConfiguration = "Default"
)

var configNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// NormalizeConfigName converts a user-supplied configuration name to its
// stored form. Spaces become underscores and only letters, digits and
// underscores are accepted.
func NormalizeConfigName(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "", domain.NewConfigError("save", "no save name specified")
	}
	if !configNamePattern.MatchString(name) {
		return "", domain.NewConfigError("save", "invalid configuration name %q: only letters, digits and underscores are allowed", name)
	}
	return name, nil
}

// ConfigKey returns the jar key for a configuration. An empty name selects
// DefaultConfiguration.
func ConfigKey(name string) string {
	if name == "" {
		name = DefaultConfiguration
	}
	return ConfigPrefix + name
}

// ConfigNameFromKey extracts the configuration name from a jar key.
func ConfigNameFromKey(key string) (string, bool) {
	name, ok := strings.CutPrefix(key, ConfigPrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
