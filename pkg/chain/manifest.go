package chain

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// Manifest declares a set of build targets plus which subset to serialize.
// Targets named in the serialize block are chained in manifest declaration
// order; the rest keep whatever concurrency the build engine gives them.
type Manifest struct {
	Targets   []TargetDecl   `hcl:"target,block"`
	Serialize *SerializeDecl `hcl:"serialize,block"`
}

// TargetDecl is a single target block in the manifest
type TargetDecl struct {
	Name    string   `hcl:"name,label"`
	Output  string   `hcl:"output,optional"`
	Command []string `hcl:"command"`
	Deps    []string `hcl:"deps,optional"`
}

// SerializeDecl names the targets to chain and the aggregate goal covering
// them
type SerializeDecl struct {
	Targets   []string `hcl:"targets"`
	Aggregate string   `hcl:"aggregate,optional"`
}

// DefaultAggregate is the aggregate goal name used when the serialize block
// does not set one.
const DefaultAggregate = "all_scheds"

// DecodeManifest parses a target manifest from HCL
func DecodeManifest(filename string, data []byte) (*Manifest, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var manifest Manifest
	if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &manifest); diags.HasErrors() {
		return nil, errors.Errorf("decoding manifest: %s", diags.Error())
	}

	if err := manifest.validate(); err != nil {
		return nil, errors.Errorf("validating manifest: %w", err)
	}
	return &manifest, nil
}

func (m *Manifest) validate() error {
	names := make(map[string]struct{}, len(m.Targets))
	for _, t := range m.Targets {
		if t.Name == "" {
			return errors.New("target name is required")
		}
		if _, dup := names[t.Name]; dup {
			return errors.Errorf("duplicate target: %s", t.Name)
		}
		names[t.Name] = struct{}{}
	}
	if m.Serialize != nil {
		for _, name := range m.Serialize.Targets {
			if _, ok := names[name]; !ok {
				return errors.Errorf("serialize references unknown target: %s", name)
			}
		}
	}
	return nil
}

// Chained returns the full declaration sequence for this manifest: targets in
// the serialize set chained with an aggregate appended, targets outside the
// set declared as-is. Declaration order follows the manifest.
func (m *Manifest) Chained() ([]Target, error) {
	serialize := map[string]struct{}{}
	aggregate := DefaultAggregate
	if m.Serialize == nil {
		// Nothing to chain; declarations pass through untouched.
		out := make([]Target, 0, len(m.Targets))
		for _, decl := range m.Targets {
			out = append(out, Target{
				Name:    decl.Name,
				Output:  decl.Output,
				Command: decl.Command,
				Deps:    decl.Deps,
			})
		}
		return out, nil
	}
	for _, name := range m.Serialize.Targets {
		serialize[name] = struct{}{}
	}
	if m.Serialize.Aggregate != "" {
		aggregate = m.Serialize.Aggregate
	}

	var toChain []Target
	var out []Target
	for _, decl := range m.Targets {
		t := Target{
			Name:    decl.Name,
			Output:  decl.Output,
			Command: decl.Command,
			Deps:    decl.Deps,
		}
		if _, ok := serialize[decl.Name]; ok {
			toChain = append(toChain, t)
		} else {
			out = append(out, t)
		}
	}

	chained, err := Serialize(toChain, aggregate)
	if err != nil {
		return nil, errors.Errorf("chaining targets: %w", err)
	}

	return append(out, chained...), nil
}
