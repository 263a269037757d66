//go:build !integration

package constants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHATagsAreBare(t *testing.T) {
	for _, tag := range HATags {
		assert.False(t, strings.HasPrefix(tag, "!"), "tag %q should be stored without the ! prefix", tag)
		assert.NotContains(t, tag, " ")
	}
}

func TestBuiltinEntitiesWellFormed(t *testing.T) {
	for _, id := range BuiltinEntities {
		parts := strings.Split(id, ".")
		assert.Len(t, parts, 2, "builtin entity %q must be domain.object_id", id)
	}
}

func TestDomainSetsDisjoint(t *testing.T) {
	builtin := make(map[string]bool)
	for _, d := range DefaultBuiltinServiceDomains {
		builtin[d] = true
	}
	for _, d := range DefaultDynamicServiceDomains {
		assert.False(t, builtin[d], "domain %q appears in both builtin and dynamic sets", d)
	}
}

func TestScriptAndSceneAreBuiltin(t *testing.T) {
	// Service checks short-circuit on these; the entity registry is not
	// consulted for script.* or scene.* calls.
	assert.Contains(t, DefaultBuiltinServiceDomains, "script")
	assert.Contains(t, DefaultBuiltinServiceDomains, "scene")
}
