// Package constants holds the fixed vocabulary of the reference validator:
// registry file names, Home Assistant YAML tags, reserved keywords, and the
// default domain sets used for service-call checks.
package constants

// StorageDirName is the directory inside a config dir that holds registries.
const StorageDirName = ".storage"

// Registry file names inside the storage directory.
const (
	EntityRegistryFile = "core.entity_registry"
	DeviceRegistryFile = "core.device_registry"
	AreaRegistryFile   = "core.area_registry"
)

// BlueprintsDirName is the directory inside a config dir that holds
// reusable automation/script templates.
const BlueprintsDirName = "blueprints"

// SettingsFileName is the optional validator settings document looked up in
// the working directory when no explicit path is given.
const SettingsFileName = "refcheck.yaml"

// HATags are the Home Assistant YAML tags the loader preserves as
// "!<tag> <value>" scalars instead of resolving.
var HATags = []string{
	"include",
	"include_dir_named",
	"include_dir_merge_named",
	"include_dir_merge_list",
	"include_dir_list",
	"input",
	"secret",
}

// ReservedEntityKeywords are service-target keywords that look like entity
// references but are not ("turn everything off" style targets).
var ReservedEntityKeywords = []string{"all", "none"}

// BuiltinEntities are entity ids provided by Home Assistant itself and
// never present in the entity registry.
var BuiltinEntities = []string{
	"sun.sun",
	"zone.home",
}

// DefaultBuiltinServiceDomains are service-call domains shipped with Home
// Assistant; calls into them are accepted without further checks.
var DefaultBuiltinServiceDomains = []string{
	"homeassistant",
	"automation",
	"script",
	"scene",
	"input_boolean",
	"input_number",
	"input_select",
	"input_text",
	"light",
	"switch",
	"cover",
	"fan",
	"climate",
	"media_player",
	"camera",
	"lock",
	"vacuum",
	"notify",
	"persistent_notification",
}

// DefaultDynamicServiceDomains are integrations that synthesize their
// services from runtime configuration; membership cannot be checked
// against a registry, so calls into them are accepted.
var DefaultDynamicServiceDomains = []string{
	"mqtt",
	"rest_command",
	"shell_command",
	"python_script",
}

// DefaultSkipFiles are documents in the config dir that are never
// reference-checked.
var DefaultSkipFiles = []string{"secrets.yaml"}
