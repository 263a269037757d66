//go:build !integration

package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecfg/refcheck/pkg/hayaml"
)

func load(t *testing.T, raw string) hayaml.Node {
	t.Helper()
	node, err := hayaml.LoadBytes([]byte(raw))
	require.NoError(t, err)
	return node
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"input tag", "!input motion_sensor", true},
		{"secret tag", "!secret api_key", true},
		{"registry id", "abc123def456abc123def456abc12345", true},
		{"template", "{{ trigger.entity_id }}", true},
		{"all keyword", "all", true},
		{"none keyword", "none", true},
		{"normal entity", "light.kitchen", false},
		{"uppercase hex is not a registry id", "ABC123DEF456ABC123DEF456ABC12345", false},
		{"short hex", "abc123", false},
		{"unclosed braces", "{{ not closed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSkip(tt.value))
		})
	}
}

func TestExtractFromExpression(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{"states single quotes", "{{ states('sensor.temperature') }}", []string{"sensor.temperature"}},
		{"states double quotes", `{{ states("sensor.humidity") }}`, []string{"sensor.humidity"}},
		{"dot notation", "{{ states.light.kitchen.state }}", []string{"light.kitchen"}},
		{"is_state", "{{ is_state('binary_sensor.door', 'on') }}", []string{"binary_sensor.door"}},
		{"state_attr", "{{ state_attr('climate.living_room', 'temperature') }}", []string{"climate.living_room"}},
		{"multiple calls", "{{ states('light.a') and is_state('switch.b', 'on') }}", []string{"light.a", "switch.b"}},
		{"deduplicated", "{{ states('light.a') or states('light.a') }}", []string{"light.a"}},
		{"malformed one segment", "{{ states('kitchen') }}", nil},
		{"malformed three segments", "{{ states('a.b.c') }}", nil},
		{"empty segment", "{{ states('light.') }}", nil},
		{"plain text", "turn on the lights", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFromExpression(tt.expr)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractEntitiesSimpleKey(t *testing.T) {
	node := load(t, `
trigger:
  entity_id: binary_sensor.motion
`)
	assert.Equal(t, []string{"binary_sensor.motion"}, ExtractEntities(node))
}

func TestExtractEntitiesList(t *testing.T) {
	node := load(t, `
action:
  entity_id:
    - light.kitchen
    - light.hallway
`)
	assert.Equal(t, []string{"light.hallway", "light.kitchen"}, ExtractEntities(node))
}

func TestExtractEntitiesAlternateKeys(t *testing.T) {
	node := load(t, `
group:
  entities:
    - switch.one
  automation:
    entity_ids:
      - switch.two
`)
	assert.Equal(t, []string{"switch.one", "switch.two"}, ExtractEntities(node))
}

func TestExtractEntitiesNested(t *testing.T) {
	node := load(t, `
- alias: Motion lights
  trigger:
    - platform: state
      entity_id: binary_sensor.hall_motion
  condition:
    - condition: state
      entity_id: sun.sun
      state: below_horizon
  action:
    - service: light.turn_on
      target:
        entity_id:
          - light.hall
`)
	assert.Equal(t,
		[]string{"binary_sensor.hall_motion", "light.hall", "sun.sun"},
		ExtractEntities(node))
}

func TestExtractEntitiesFromTemplates(t *testing.T) {
	node := load(t, `
sensor:
  - platform: template
    value_template: "{{ states('sensor.outdoor_temp') | float > 20 }}"
    availability: "{{ states.binary_sensor.online.state == 'on' }}"
`)
	assert.Equal(t,
		[]string{"binary_sensor.online", "sensor.outdoor_temp"},
		ExtractEntities(node))
}

func TestExtractEntitiesSkipsNonReferences(t *testing.T) {
	node := load(t, `
action:
  - entity_id: !input target_light
  - entity_id: abc123def456abc123def456abc12345
  - entity_id: "{{ trigger.entity_id }}"
  - entity_id: all
  - entity_id: light.real
`)
	assert.Equal(t, []string{"light.real"}, ExtractEntities(node))
}

func TestExtractDevices(t *testing.T) {
	node := load(t, `
trigger:
  - device_id: 1234567890abcdef1234567890abcdef
action:
  - device_ids:
      - fedcba0987654321fedcba0987654321
  - device_id: !input target_device
`)
	assert.Equal(t,
		[]string{"1234567890abcdef1234567890abcdef", "fedcba0987654321fedcba0987654321"},
		ExtractDevices(node))
}

func TestExtractAreas(t *testing.T) {
	node := load(t, `
action:
  - target:
      area_id: kitchen
  - target:
      area_ids:
        - garage
        - hallway
  - target:
      area_id: !input target_area
`)
	assert.Equal(t, []string{"garage", "hallway", "kitchen"}, ExtractAreas(node))
}

func TestExtractRegistryIDs(t *testing.T) {
	node := load(t, `
action:
  - entity_id: abc123def456abc123def456abc12345
  - entity_id: light.kitchen
  - device_id: fedcba0987654321fedcba0987654321
`)
	// Only opaque ids in entity position resolve through the id index.
	assert.Equal(t, []string{"abc123def456abc123def456abc12345"}, ExtractRegistryIDs(node))
}

func TestExtractServices(t *testing.T) {
	node := load(t, `
- alias: Nested calls
  action:
    - service: light.turn_on
    - action: switch.toggle
    - choose:
        - sequence:
            - service: notify.mobile_app
    - service: "{{ 'light.turn_' + state }}"
    - service: !input service_to_call
    - action: run_something
`)
	assert.Equal(t,
		[]string{"light.turn_on", "notify.mobile_app", "switch.toggle"},
		ExtractServices(node))
}

func TestExtractFromNilDocument(t *testing.T) {
	assert.Empty(t, ExtractEntities(nil))
	assert.Empty(t, ExtractDevices(nil))
	assert.Empty(t, ExtractAreas(nil))
	assert.Empty(t, ExtractRegistryIDs(nil))
	assert.Empty(t, ExtractServices(nil))
}
