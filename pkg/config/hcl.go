// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclHeaders struct {
		Dir     string   `hcl:"dir"`
		Exclude []string `hcl:"exclude,optional"`
	}
	type hclGroup struct {
		Groups []string `hcl:"groups"`
		Allow  []string `hcl:"allow,optional"`
	}
	type hclManifest struct {
		Name       string `hcl:"name"`
		Dependency string `hcl:"dependency"`
	}
	type hclConfig struct {
		Prefix   string       `hcl:"prefix"`
		Headers  hclHeaders   `hcl:"headers,block"`
		Broad    *hclGroup    `hcl:"broad,block"`
		Narrow   *hclGroup    `hcl:"narrow,block"`
		Manifest *hclManifest `hcl:"manifest,block"`
	}

	var raw hclConfig
	if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &raw); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to Config, keeping defaults for omitted blocks
	cfg := Default()
	cfg.Prefix = raw.Prefix
	cfg.Headers = HeaderArgs{Dir: raw.Headers.Dir, Exclude: raw.Headers.Exclude}
	if raw.Broad != nil {
		cfg.Broad = GroupArgs{Groups: raw.Broad.Groups}
	} else {
		cfg.Broad = GroupArgs{}
	}
	if raw.Narrow != nil {
		cfg.Narrow = GroupArgs{Groups: raw.Narrow.Groups, Allow: raw.Narrow.Allow}
	} else {
		cfg.Narrow = GroupArgs{}
	}
	if raw.Manifest != nil {
		cfg.Manifest = ManifestArgs{Name: raw.Manifest.Name, Dependency: raw.Manifest.Dependency}
	}

	return cfg, nil
}
