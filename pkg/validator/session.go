// Package validator runs reference validation over a Home Assistant config
// directory: every YAML document is parsed, its entity, device, area, and
// service references extracted, and each reference checked against the
// storage registries. Results are graded findings; a run is valid when it
// produced no errors.
package validator

import (
	"path/filepath"
	"strings"

	"github.com/homecfg/refcheck/pkg/blueprint"
	"github.com/homecfg/refcheck/pkg/fileutil"
	"github.com/homecfg/refcheck/pkg/hayaml"
	"github.com/homecfg/refcheck/pkg/logger"
	"github.com/homecfg/refcheck/pkg/refs"
	"github.com/homecfg/refcheck/pkg/registry"
)

var sessionLog = logger.New("validator:session")

// Session validates one config directory. Registries and blueprints are
// loaded once and shared across files; each Run produces a fresh Report, so
// repeated runs over unchanged input yield identical results.
type Session struct {
	configDir string
	settings  Settings
	store     *registry.Store
}

// NewSession creates a Session for configDir.
func NewSession(configDir string, settings Settings) *Session {
	return &Session{
		configDir: configDir,
		settings:  settings,
		store:     registry.NewStore(configDir),
	}
}

// ConfigDir returns the directory this session validates.
func (s *Session) ConfigDir() string {
	return s.configDir
}

// Store exposes the session's registry store.
func (s *Session) Store() *registry.Store {
	return s.store
}

// Run validates every YAML document in the config directory and returns the
// collected findings.
func (s *Session) Run() *Report {
	report := &Report{}

	if !fileutil.DirExists(s.configDir) {
		report.AddError("", "Config directory %s does not exist", s.configDir)
		return report
	}

	entities, err := s.store.Entities()
	if err != nil {
		report.AddError("", "%v", err)
	}
	devices, err := s.store.Devices()
	if err != nil {
		report.AddError("", "%v", err)
	}
	areas, err := s.store.Areas()
	if err != nil {
		report.AddWarning("", "%v", err)
	}
	idIndex, _ := s.store.RegistryIDIndex()

	resolver, err := blueprint.NewResolver(s.configDir)
	if err != nil {
		report.AddWarning("", "Failed to index blueprints: %v", err)
		resolver = blueprint.NewEmptyResolver()
	}

	entityDomains := map[string]bool{}
	for entityID := range entities {
		if domain, _, ok := strings.Cut(entityID, "."); ok {
			entityDomains[domain] = true
		}
	}

	files, err := fileutil.ListYAMLFiles(s.configDir)
	if err != nil {
		report.AddError("", "Failed to list config directory: %v", err)
		return report
	}
	if len(files) == 0 {
		report.AddWarning("", "No YAML files found in config directory")
		return report
	}

	for _, path := range files {
		if s.settings.ShouldSkipFile(filepath.Base(path)) {
			sessionLog.Printf("skipping %s", path)
			continue
		}
		s.validateFile(report, path, fileContext{
			entities:      entities,
			devices:       devices,
			areas:         areas,
			idIndex:       idIndex,
			entityDomains: entityDomains,
			resolver:      resolver,
		})
	}

	sessionLog.Printf("validated %d files: %d errors, %d warnings",
		len(files), len(report.Errors()), len(report.Warnings()))
	return report
}

type fileContext struct {
	entities      map[string]registry.Entity
	devices       map[string]registry.Device
	areas         map[string]registry.Area
	idIndex       map[string]string
	entityDomains map[string]bool
	resolver      *blueprint.Resolver
}

func (s *Session) validateFile(report *Report, path string, ctx fileContext) {
	node, err := hayaml.LoadFile(path)
	if err != nil {
		report.AddError(path, "Failed to load YAML - %v", err)
		return
	}
	if node == nil {
		// An empty document references nothing.
		return
	}

	for _, entityID := range refs.ExtractEntities(node) {
		if s.settings.IsBuiltinEntity(entityID) {
			continue
		}
		entity, ok := ctx.entities[entityID]
		if !ok {
			report.AddError(path, "Unknown entity '%s'", entityID)
			continue
		}
		if entity.Disabled() {
			report.AddWarning(path, "References disabled entity '%s'", entityID)
		}
	}

	for _, registryID := range refs.ExtractRegistryIDs(node) {
		entityID, ok := ctx.idIndex[registryID]
		if !ok {
			report.AddError(path, "Unknown entity registry ID '%s'", registryID)
			continue
		}
		if entity, ok := ctx.entities[entityID]; ok && entity.Disabled() {
			report.AddWarning(path,
				"Entity registry ID '%s' references disabled entity '%s'",
				registryID, entityID)
		}
	}

	for _, deviceID := range refs.ExtractDevices(node) {
		if _, ok := ctx.devices[deviceID]; !ok {
			report.AddError(path, "Unknown device '%s'", deviceID)
		}
	}

	for _, areaID := range refs.ExtractAreas(node) {
		if _, ok := ctx.areas[areaID]; !ok {
			report.AddWarning(path, "Unknown area '%s'", areaID)
		}
	}

	s.checkServices(report, path, refs.ExtractServices(node), ctx.entityDomains)

	if isAutomationsFile(path) {
		for _, usage := range blueprint.ExtractUsages(node) {
			errs, warns := ctx.resolver.ValidateUsage(usage)
			for _, msg := range errs {
				report.AddError(path, "%s", msg)
			}
			for _, msg := range warns {
				report.AddWarning(path, "%s", msg)
			}
		}
	}
}

// checkServices grades service calls. Offline validation cannot prove a
// service exists, so nothing here is an error: unknown domains are common
// with custom integrations.
func (s *Session) checkServices(report *Report, path string, services []string, entityDomains map[string]bool) {
	for _, service := range services {
		domain, _, ok := strings.Cut(service, ".")
		if !ok {
			report.AddWarning(path,
				"Invalid service format '%s' (expected 'domain.action')", service)
			continue
		}
		if s.settings.IsBuiltinServiceDomain(domain) {
			continue
		}
		if s.settings.IsDynamicServiceDomain(domain) {
			continue
		}
		if entityDomains[domain] {
			continue
		}
		report.AddWarning(path,
			"Service '%s' uses domain '%s' (not a builtin domain - may be custom integration)",
			service, domain)
	}
}

func isAutomationsFile(path string) bool {
	base := filepath.Base(path)
	return base == "automations.yaml" || base == "automations.yml"
}
