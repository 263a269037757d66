// Package blueprint resolves blueprint definitions under a config dir and
// checks that automations using them satisfy the declared input contract.
package blueprint

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/homecfg/refcheck/pkg/constants"
	"github.com/homecfg/refcheck/pkg/fileutil"
	"github.com/homecfg/refcheck/pkg/hayaml"
	"github.com/homecfg/refcheck/pkg/logger"
)

var bpLog = logger.New("blueprint:resolver")

// Blueprint is one parsed blueprint definition.
type Blueprint struct {
	// Path is the definition's location relative to the blueprints root,
	// e.g. "automation/motion_light.yaml".
	Path string
	// Required and Optional hold the declared input names. An input with a
	// default is optional; everything else must be provided by the caller.
	Required map[string]bool
	Optional map[string]bool
}

// Resolver indexes the blueprint definitions of one config directory.
type Resolver struct {
	index map[string]*Blueprint
	paths []string
}

// NewEmptyResolver returns a resolver with nothing indexed. Every Resolve
// misses, which downgrades blueprint checks to not-found warnings.
func NewEmptyResolver() *Resolver {
	return &Resolver{index: map[string]*Blueprint{}}
}

// NewResolver scans <configDir>/blueprints recursively for blueprint
// definitions. A missing blueprints directory yields an empty resolver.
// Unreadable definitions are skipped with a log line; one bad file must not
// hide the rest of the index.
func NewResolver(configDir string) (*Resolver, error) {
	r := &Resolver{index: map[string]*Blueprint{}}
	root := filepath.Join(configDir, constants.BlueprintsDirName)
	if !fileutil.DirExists(root) {
		bpLog.Print("no blueprints directory, resolver is empty")
		return r, nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !fileutil.IsYAMLFile(path) {
			return nil
		}

		node, loadErr := hayaml.LoadFile(path)
		if loadErr != nil {
			bpLog.Printf("skipping unreadable blueprint %s: %v", path, loadErr)
			return nil
		}
		doc, ok := node.(*hayaml.Mapping)
		if !ok {
			return nil
		}
		meta, ok := doc.Get("blueprint")
		if !ok {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		r.index[rel] = parseBlueprint(rel, meta)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan blueprints: %w", err)
	}

	r.paths = make([]string, 0, len(r.index))
	for p := range r.index {
		r.paths = append(r.paths, p)
	}
	sort.Strings(r.paths)
	bpLog.Printf("indexed %d blueprints", len(r.index))
	return r, nil
}

func parseBlueprint(rel string, meta hayaml.Node) *Blueprint {
	bp := &Blueprint{
		Path:     rel,
		Required: map[string]bool{},
		Optional: map[string]bool{},
	}
	m, ok := meta.(*hayaml.Mapping)
	if !ok {
		return bp
	}
	inputs, ok := m.Get("input")
	if !ok {
		return bp
	}
	inputMap, ok := inputs.(*hayaml.Mapping)
	if !ok {
		return bp
	}
	for _, p := range inputMap.Pairs {
		if cfg, ok := p.Value.(*hayaml.Mapping); ok {
			if _, hasDefault := cfg.Get("default"); hasDefault {
				bp.Optional[p.Key] = true
				continue
			}
		}
		bp.Required[p.Key] = true
	}
	return bp
}

// Len returns the number of indexed blueprints.
func (r *Resolver) Len() int {
	return len(r.index)
}

// Resolve finds the blueprint for a use_blueprint path. An exact match wins;
// otherwise the first suffix match in path order is taken, so partial paths
// like "motion_light.yaml" resolve deterministically.
func (r *Resolver) Resolve(path string) *Blueprint {
	if bp, ok := r.index[path]; ok {
		return bp
	}
	for _, candidate := range r.paths {
		if strings.HasSuffix(candidate, path) {
			return r.index[candidate]
		}
	}
	return nil
}

// Usage is one use_blueprint stanza found in an automations document.
type Usage struct {
	Path   string
	Inputs []string
}

// ExtractUsages collects use_blueprint stanzas from an automations document,
// which is a sequence of automation mappings.
func ExtractUsages(root hayaml.Node) []Usage {
	seq, ok := root.(*hayaml.Sequence)
	if !ok {
		return nil
	}

	var usages []Usage
	for _, item := range seq.Items {
		automation, ok := item.(*hayaml.Mapping)
		if !ok {
			continue
		}
		useNode, ok := automation.Get("use_blueprint")
		if !ok {
			continue
		}
		use, ok := useNode.(*hayaml.Mapping)
		if !ok {
			continue
		}

		usage := Usage{}
		if pathNode, ok := use.Get("path"); ok {
			usage.Path, _ = hayaml.StringValue(pathNode)
		}
		if inputNode, ok := use.Get("input"); ok {
			if inputs, ok := inputNode.(*hayaml.Mapping); ok {
				for _, p := range inputs.Pairs {
					usage.Inputs = append(usage.Inputs, p.Key)
				}
			}
		}
		usages = append(usages, usage)
	}
	return usages
}

// ValidateUsage checks one use_blueprint stanza against the index. Contract
// breaches against a local blueprint are errors; everything that could be
// explained by a community blueprint or loose authoring stays a warning.
func (r *Resolver) ValidateUsage(u Usage) (errs, warns []string) {
	if u.Path == "" {
		warns = append(warns, "Blueprint automation missing 'path'")
		return errs, warns
	}

	bp := r.Resolve(u.Path)
	if bp == nil {
		warns = append(warns, fmt.Sprintf(
			"Blueprint '%s' not found locally (may be community blueprint)", u.Path))
		return errs, warns
	}

	provided := map[string]bool{}
	for _, name := range u.Inputs {
		provided[name] = true
	}

	var missing []string
	for name := range bp.Required {
		if !provided[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		errs = append(errs, fmt.Sprintf(
			"Blueprint automation missing required inputs: %s", strings.Join(missing, ", ")))
	}

	var unknown []string
	for name := range provided {
		if !bp.Required[name] && !bp.Optional[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		warns = append(warns, fmt.Sprintf(
			"Blueprint automation has unknown inputs: %s", strings.Join(unknown, ", ")))
	}

	return errs, warns
}
