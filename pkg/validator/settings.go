package validator

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/homecfg/refcheck/pkg/constants"
	"github.com/homecfg/refcheck/pkg/fileutil"
	"github.com/homecfg/refcheck/pkg/logger"
)

var settingsLog = logger.New("validator:settings")

// Settings tunes a validation run. All fields have working defaults; a
// settings document only needs to name what it changes.
type Settings struct {
	// BuiltinServiceDomains are service domains accepted without checks.
	BuiltinServiceDomains []string `yaml:"builtin_service_domains"`
	// DynamicServiceDomains synthesize services from runtime configuration
	// and cannot be checked offline.
	DynamicServiceDomains []string `yaml:"dynamic_service_domains"`
	// BuiltinEntities exist at runtime without a registry record.
	BuiltinEntities []string `yaml:"builtin_entities"`
	// SkipFiles are config-dir documents excluded from validation.
	SkipFiles []string `yaml:"skip_files"`

	builtinDomains  map[string]bool
	dynamicDomains  map[string]bool
	builtinEntities map[string]bool
	skipFiles       map[string]bool
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	s := Settings{
		BuiltinServiceDomains: constants.DefaultBuiltinServiceDomains,
		DynamicServiceDomains: constants.DefaultDynamicServiceDomains,
		BuiltinEntities:       constants.BuiltinEntities,
		SkipFiles:             constants.DefaultSkipFiles,
	}
	s.normalize()
	return s
}

// LoadSettings reads a settings document. Fields left empty fall back to the
// defaults.
func LoadSettings(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}

	defaults := DefaultSettings()
	if len(s.BuiltinServiceDomains) == 0 {
		s.BuiltinServiceDomains = defaults.BuiltinServiceDomains
	}
	if len(s.DynamicServiceDomains) == 0 {
		s.DynamicServiceDomains = defaults.DynamicServiceDomains
	}
	if len(s.BuiltinEntities) == 0 {
		s.BuiltinEntities = defaults.BuiltinEntities
	}
	if len(s.SkipFiles) == 0 {
		s.SkipFiles = defaults.SkipFiles
	}
	s.normalize()
	settingsLog.Printf("loaded settings from %s", path)
	return s, nil
}

// DiscoverSettings loads an explicit settings path, or the well-known
// settings file in the working directory, or the defaults.
func DiscoverSettings(explicitPath string) (Settings, error) {
	if explicitPath != "" {
		return LoadSettings(explicitPath)
	}
	if fileutil.FileExists(constants.SettingsFileName) {
		return LoadSettings(constants.SettingsFileName)
	}
	return DefaultSettings(), nil
}

func (s *Settings) normalize() {
	s.builtinDomains = toSet(s.BuiltinServiceDomains)
	s.dynamicDomains = toSet(s.DynamicServiceDomains)
	s.builtinEntities = toSet(s.BuiltinEntities)
	s.skipFiles = toSet(s.SkipFiles)
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// IsBuiltinServiceDomain reports whether domain ships with Home Assistant.
func (s *Settings) IsBuiltinServiceDomain(domain string) bool {
	return s.builtinDomains[domain]
}

// IsDynamicServiceDomain reports whether domain synthesizes its services.
func (s *Settings) IsDynamicServiceDomain(domain string) bool {
	return s.dynamicDomains[domain]
}

// IsBuiltinEntity reports whether an entity id exists without a registry
// record.
func (s *Settings) IsBuiltinEntity(entityID string) bool {
	return s.builtinEntities[entityID]
}

// ShouldSkipFile reports whether a config document is excluded by name.
func (s *Settings) ShouldSkipFile(baseName string) bool {
	return s.skipFiles[baseName]
}
