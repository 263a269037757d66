// Package refs extracts checkable references out of parsed Home Assistant
// configuration trees: entity ids, device ids, area ids, registry ids, and
// service calls.
//
// Extraction is deliberately permissive about document shape. Walks recurse
// through every mapping and sequence so references are found regardless of
// how deeply an automation, script, or dashboard nests them.
package refs

import (
	"regexp"
	"sort"
	"strings"

	"github.com/homecfg/refcheck/pkg/hayaml"
	"github.com/homecfg/refcheck/pkg/logger"
)

var refsLog = logger.New("refs:extract")

var (
	registryIDRe = regexp.MustCompile(`^[a-f0-9]{32}$`)
	templateRe   = regexp.MustCompile(`\{\{.*?\}\}`)
)

// reservedKeywords are service-target values that name groups of entities
// rather than a single entity.
var reservedKeywords = map[string]bool{
	"all":  true,
	"none": true,
}

// ShouldSkip reports whether a candidate value is not a literal reference:
// preserved YAML tags, opaque registry ids, templates, and reserved target
// keywords all resolve at runtime, not against the registries.
func ShouldSkip(value string) bool {
	if strings.HasPrefix(value, "!") {
		return true
	}
	if registryIDRe.MatchString(value) {
		return true
	}
	if templateRe.MatchString(value) {
		return true
	}
	return reservedKeywords[value]
}

// IsRegistryID reports whether a value is an opaque 32-character hex id as
// assigned by the entity registry.
func IsRegistryID(value string) bool {
	return registryIDRe.MatchString(value)
}

// expressionPatterns match the entity id argument of state-inspection calls
// inside template strings. Quote styles are matched pairwise.
var expressionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`states\('([^']+)'\)`),
	regexp.MustCompile(`states\("([^"]+)"\)`),
	regexp.MustCompile(`states\.([a-zA-Z_][a-zA-Z0-9_]*\.[a-zA-Z0-9_]+)`),
	regexp.MustCompile(`is_state\('([^']+)'`),
	regexp.MustCompile(`is_state\("([^"]+)"`),
	regexp.MustCompile(`state_attr\('([^']+)'`),
	regexp.MustCompile(`state_attr\("([^"]+)"`),
}

// expressionMarkers gate which strings are worth scanning.
var expressionMarkers = []string{"states(", "states.", "is_state(", "state_attr("}

func hasExpressionMarker(s string) bool {
	for _, marker := range expressionMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// ExtractFromExpression scans a template or script expression for entity ids
// referenced through states(), states.x.y, is_state(), and state_attr().
// Only well-formed two-part ids are returned, deduplicated and sorted.
func ExtractFromExpression(expr string) []string {
	set := map[string]struct{}{}
	for _, pattern := range expressionPatterns {
		for _, match := range pattern.FindAllStringSubmatch(expr, -1) {
			candidate := match[1]
			parts := strings.Split(candidate, ".")
			if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
				continue
			}
			set[candidate] = struct{}{}
		}
	}
	return sortedKeys(set)
}

var entityKeys = map[string]bool{
	"entity_id":  true,
	"entity_ids": true,
	"entities":   true,
}

var deviceKeys = map[string]bool{
	"device_id":  true,
	"device_ids": true,
}

var areaKeys = map[string]bool{
	"area_id":  true,
	"area_ids": true,
}

// ExtractEntities walks a document and collects entity id references from
// entity-targeting keys and from state-inspection expressions embedded in
// any string value.
func ExtractEntities(root hayaml.Node) []string {
	set := map[string]struct{}{}
	walk(root, func(key string, value hayaml.Node) {
		if entityKeys[key] {
			eachString(value, func(s string) {
				if !ShouldSkip(s) {
					set[s] = struct{}{}
				}
			})
		}
	}, func(s string) {
		if !hasExpressionMarker(s) {
			return
		}
		for _, id := range ExtractFromExpression(s) {
			set[id] = struct{}{}
		}
	})
	refsLog.Printf("extracted %d entity references", len(set))
	return sortedKeys(set)
}

// ExtractDevices collects device id references. Device ids are opaque, so
// only preserved YAML tags are filtered out.
func ExtractDevices(root hayaml.Node) []string {
	set := map[string]struct{}{}
	walk(root, func(key string, value hayaml.Node) {
		if deviceKeys[key] {
			eachString(value, func(s string) {
				if !strings.HasPrefix(s, "!") {
					set[s] = struct{}{}
				}
			})
		}
	}, nil)
	return sortedKeys(set)
}

// ExtractAreas collects area id references. Like device ids, area ids carry
// no internal structure to classify on.
func ExtractAreas(root hayaml.Node) []string {
	set := map[string]struct{}{}
	walk(root, func(key string, value hayaml.Node) {
		if areaKeys[key] {
			eachString(value, func(s string) {
				if !strings.HasPrefix(s, "!") {
					set[s] = struct{}{}
				}
			})
		}
	}, nil)
	return sortedKeys(set)
}

// ExtractRegistryIDs collects opaque registry ids used where an entity id is
// expected. These are resolved through the registry id index.
func ExtractRegistryIDs(root hayaml.Node) []string {
	set := map[string]struct{}{}
	walk(root, func(key string, value hayaml.Node) {
		if key == "entity_id" {
			eachString(value, func(s string) {
				if IsRegistryID(s) {
					set[s] = struct{}{}
				}
			})
		}
	}, nil)
	return sortedKeys(set)
}

// ExtractServices collects service call references: "service" values, plus
// "action" values in the shorthand dotted form. Tags and templates resolve
// at runtime and are skipped.
func ExtractServices(root hayaml.Node) []string {
	set := map[string]struct{}{}
	walk(root, func(key string, value hayaml.Node) {
		s, ok := hayaml.StringValue(value)
		if !ok {
			return
		}
		if strings.HasPrefix(s, "!") || templateRe.MatchString(s) {
			return
		}
		switch key {
		case "service":
			set[s] = struct{}{}
		case "action":
			if strings.Contains(s, ".") {
				set[s] = struct{}{}
			}
		}
	}, nil)
	return sortedKeys(set)
}

// walk visits every mapping pair and string scalar in the tree. onPair fires
// for each key/value pair before recursing into the value; onString fires
// for every string scalar.
func walk(root hayaml.Node, onPair func(key string, value hayaml.Node), onString func(s string)) {
	var visit func(n hayaml.Node)
	visit = func(n hayaml.Node) {
		switch v := n.(type) {
		case *hayaml.Mapping:
			for _, p := range v.Pairs {
				if onPair != nil {
					onPair(p.Key, p.Value)
				}
				visit(p.Value)
			}
		case *hayaml.Sequence:
			for _, item := range v.Items {
				visit(item)
			}
		case *hayaml.Scalar:
			if onString != nil {
				if s, ok := v.Str(); ok {
					onString(s)
				}
			}
		}
	}
	if root != nil {
		visit(root)
	}
}

// eachString emits a string scalar, or each string item of a sequence.
func eachString(n hayaml.Node, emit func(s string)) {
	switch v := n.(type) {
	case *hayaml.Scalar:
		if s, ok := v.Str(); ok {
			emit(s)
		}
	case *hayaml.Sequence:
		for _, item := range v.Items {
			if s, ok := hayaml.StringValue(item); ok {
				emit(s)
			}
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
