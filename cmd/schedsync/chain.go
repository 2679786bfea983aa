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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/schedsync/pkg/chain"
	"gitlab.com/tozd/go/errors"
)

func newChainCmd() *cobra.Command {
	var manifestFile string

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "render serialized build-target declarations from a target manifest",
		Long: `Reads an HCL target manifest, threads the serialize set into a linear
dependency chain and prints the resulting declarations. Chained targets run
one at a time under the build engine; targets outside the set keep their
default concurrency.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(manifestFile)
			if err != nil {
				return errors.Errorf("reading manifest: %w", err)
			}

			manifest, err := chain.DecodeManifest(filepath.Base(manifestFile), data)
			if err != nil {
				return errors.Errorf("decoding manifest: %w", err)
			}

			targets, err := manifest.Chained()
			if err != nil {
				return err
			}

			rec := &chain.Recorder{}
			if err := chain.Declare(rec, targets); err != nil {
				return err
			}

			for _, t := range rec.Targets {
				printTarget(cmd, t)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestFile, "manifest", "m", "targets.hcl", "target manifest file")

	return cmd
}

func printTarget(cmd *cobra.Command, t chain.Target) {
	name := color.New(color.Bold).Sprint(t.Name)

	var attrs []string
	if len(t.Deps) > 0 {
		attrs = append(attrs, "after "+strings.Join(t.Deps, ", "))
	}
	if t.AlwaysStale {
		attrs = append(attrs, "always-stale")
	}
	if t.Default {
		attrs = append(attrs, color.New(color.FgGreen).Sprint("default"))
	}

	line := name
	if len(attrs) > 0 {
		line += " [" + strings.Join(attrs, ", ") + "]"
	}
	if len(t.Command) > 0 {
		line += ": " + strings.Join(t.Command, " ")
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}
