// Package registry reads the Home Assistant storage registries that back
// reference validation: entities, devices, and areas.
//
// Registries live as JSON documents under <config>/.storage. Loads are lazy
// and cached for the lifetime of a Store; a failed load degrades to an empty
// map so validation can continue with whatever is available.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/homecfg/refcheck/pkg/constants"
	"github.com/homecfg/refcheck/pkg/logger"
)

var regLog = logger.New("registry:store")

// Entity is one record of the entity registry.
type Entity struct {
	EntityID   string  `json:"entity_id"`
	ID         string  `json:"id"`
	Platform   string  `json:"platform"`
	DisabledBy *string `json:"disabled_by"`
	AreaID     *string `json:"area_id"`
}

// Disabled reports whether the entity is disabled in the registry.
func (e Entity) Disabled() bool {
	return e.DisabledBy != nil && *e.DisabledBy != ""
}

// Device is one record of the device registry.
type Device struct {
	ID     string  `json:"id"`
	Name   *string `json:"name"`
	AreaID *string `json:"area_id"`
}

// Area is one record of the area registry.
type Area struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

type entityRegistryDoc struct {
	Data struct {
		Entities []Entity `json:"entities"`
	} `json:"data"`
}

type deviceRegistryDoc struct {
	Data struct {
		Devices []Device `json:"devices"`
	} `json:"data"`
}

type areaRegistryDoc struct {
	Data struct {
		Areas []Area `json:"areas"`
	} `json:"data"`
}

// Store loads registries for one config directory. Each registry is read at
// most once; results, including failures, are cached.
type Store struct {
	configDir string

	mu         sync.Mutex
	entities   map[string]Entity
	entityErr  error
	devices    map[string]Device
	deviceErr  error
	areas      map[string]Area
	areaErr    error
	idIndex    map[string]string
	loadedEnt  bool
	loadedDev  bool
	loadedArea bool
}

// NewStore creates a Store rooted at configDir.
func NewStore(configDir string) *Store {
	return &Store{configDir: configDir}
}

// StoragePath returns the path of a registry file inside the storage dir.
func (s *Store) StoragePath(name string) string {
	return filepath.Join(s.configDir, constants.StorageDirName, name)
}

// Entities returns the entity registry keyed by entity id. On failure the map
// is empty and the error describes why; the result is cached either way.
func (s *Store) Entities() (map[string]Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadedEnt {
		return s.entities, s.entityErr
	}
	s.loadedEnt = true
	s.entities = map[string]Entity{}
	s.idIndex = map[string]string{}

	var doc entityRegistryDoc
	if err := s.loadRegistry(constants.EntityRegistryFile, entityRegistrySchema, &doc); err != nil {
		s.entityErr = err
		return s.entities, s.entityErr
	}
	for _, e := range doc.Data.Entities {
		s.entities[e.EntityID] = e
		if e.ID != "" {
			s.idIndex[e.ID] = e.EntityID
		}
	}
	regLog.Printf("loaded %d entities from %s", len(s.entities), constants.EntityRegistryFile)
	return s.entities, nil
}

// RegistryIDIndex maps internal registry ids to entity ids. The index is
// built alongside the entity registry and shares its failure mode.
func (s *Store) RegistryIDIndex() (map[string]string, error) {
	_, err := s.Entities()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idIndex, err
}

// Devices returns the device registry keyed by device id.
func (s *Store) Devices() (map[string]Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadedDev {
		return s.devices, s.deviceErr
	}
	s.loadedDev = true
	s.devices = map[string]Device{}

	var doc deviceRegistryDoc
	if err := s.loadRegistry(constants.DeviceRegistryFile, deviceRegistrySchema, &doc); err != nil {
		s.deviceErr = err
		return s.devices, s.deviceErr
	}
	for _, d := range doc.Data.Devices {
		s.devices[d.ID] = d
	}
	regLog.Printf("loaded %d devices from %s", len(s.devices), constants.DeviceRegistryFile)
	return s.devices, nil
}

// Areas returns the area registry keyed by area id. Area data is optional in
// many installs; callers treat a failure here as advisory.
func (s *Store) Areas() (map[string]Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadedArea {
		return s.areas, s.areaErr
	}
	s.loadedArea = true
	s.areas = map[string]Area{}

	var doc areaRegistryDoc
	if err := s.loadRegistry(constants.AreaRegistryFile, areaRegistrySchema, &doc); err != nil {
		s.areaErr = err
		return s.areas, s.areaErr
	}
	for _, a := range doc.Data.Areas {
		s.areas[a.ID] = a
	}
	regLog.Printf("loaded %d areas from %s", len(s.areas), constants.AreaRegistryFile)
	return s.areas, nil
}

// loadRegistry reads one registry file, checks its shape against schemaJSON,
// and decodes it into out.
func (s *Store) loadRegistry(name, schemaJSON string, out any) error {
	path := s.StoragePath(name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("registry %s not found at %s", name, path)
		}
		return fmt.Errorf("read registry %s: %w", name, err)
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("registry %s is not valid JSON: %w", name, err)
	}

	sch, err := compileSchema(name, schemaJSON)
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", name, err)
	}
	if err := sch.Validate(instance); err != nil {
		return fmt.Errorf("registry %s has unexpected structure: %w", name, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode registry %s: %w", name, err)
	}
	return nil
}

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*jsonschema.Schema{}
)

func compileSchema(name, schemaJSON string) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if sch, ok := schemaCache[name]; ok {
		return sch, nil
	}

	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	resource := name + ".schema.json"
	if err := c.AddResource(resource, schemaDoc); err != nil {
		return nil, err
	}
	sch, err := c.Compile(resource)
	if err != nil {
		return nil, err
	}
	schemaCache[name] = sch
	return sch, nil
}
