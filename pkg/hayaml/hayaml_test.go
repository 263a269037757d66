//go:build !integration

package hayaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesMappingOrder(t *testing.T) {
	node, err := LoadBytes([]byte("light: on\nswitch: off\ncover: open\n"))
	require.NoError(t, err)

	m, ok := node.(*Mapping)
	require.True(t, ok)
	require.Len(t, m.Pairs, 3)
	assert.Equal(t, "light", m.Pairs[0].Key)
	assert.Equal(t, "switch", m.Pairs[1].Key)
	assert.Equal(t, "cover", m.Pairs[2].Key)
}

func TestLoadBytesScalarTypes(t *testing.T) {
	node, err := LoadBytes([]byte(`
name: kitchen
count: 3
ratio: 0.5
enabled: true
missing: null
`))
	require.NoError(t, err)
	m := node.(*Mapping)

	get := func(key string) any {
		v, ok := m.Get(key)
		require.True(t, ok, key)
		return v.(*Scalar).Value
	}

	assert.Equal(t, "kitchen", get("name"))
	assert.Equal(t, int64(3), get("count"))
	assert.Equal(t, 0.5, get("ratio"))
	assert.Equal(t, true, get("enabled"))
	assert.Nil(t, get("missing"))
}

func TestLoadBytesPreservesHATags(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"secret", "password: !secret db_password", "!secret db_password"},
		{"input", "entity_id: !input motion_sensor", "!input motion_sensor"},
		{"include", "automation: !include automations.yaml", "!include automations.yaml"},
		{"include dir", "script: !include_dir_merge_named scripts/", "!include_dir_merge_named scripts/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := LoadBytes([]byte(tt.yaml))
			require.NoError(t, err)
			m := node.(*Mapping)
			require.Len(t, m.Pairs, 1)
			got, ok := StringValue(m.Pairs[0].Value)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadBytesNestedStructure(t *testing.T) {
	node, err := LoadBytes([]byte(`
- alias: Morning lights
  action:
    - service: light.turn_on
      entity_id:
        - light.kitchen
        - light.hallway
`))
	require.NoError(t, err)

	seq, ok := node.(*Sequence)
	require.True(t, ok)
	require.Len(t, seq.Items, 1)

	automation := seq.Items[0].(*Mapping)
	actions, ok := automation.Get("action")
	require.True(t, ok)

	action := actions.(*Sequence).Items[0].(*Mapping)
	ids, ok := action.Get("entity_id")
	require.True(t, ok)

	idSeq := ids.(*Sequence)
	first, _ := StringValue(idSeq.Items[0])
	second, _ := StringValue(idSeq.Items[1])
	assert.Equal(t, "light.kitchen", first)
	assert.Equal(t, "light.hallway", second)
}

func TestLoadBytesEmptyDocument(t *testing.T) {
	for _, raw := range []string{"", "\n", "# only a comment\n"} {
		node, err := LoadBytes([]byte(raw))
		require.NoError(t, err)
		assert.Nil(t, node)
	}
}

func TestLoadBytesInvalidYAML(t *testing.T) {
	_, err := LoadBytes([]byte("key: [unclosed"))
	assert.Error(t, err)
}

func TestLoadBytesAnchorsAndAliases(t *testing.T) {
	node, err := LoadBytes([]byte(`
default: &base
  service: light.turn_on
override: *base
`))
	require.NoError(t, err)
	m := node.(*Mapping)

	override, ok := m.Get("override")
	require.True(t, ok)
	svc, ok := override.(*Mapping).Get("service")
	require.True(t, ok)
	got, _ := StringValue(svc)
	assert.Equal(t, "light.turn_on", got)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "automations.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- alias: test\n"), 0o600))

	node, err := LoadFile(path)
	require.NoError(t, err)
	assert.IsType(t, &Sequence{}, node)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
