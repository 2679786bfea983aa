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
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/schedsync/pkg/config"
	"github.com/walteh/schedsync/pkg/log"
	"github.com/walteh/schedsync/pkg/operation"
	"github.com/walteh/schedsync/pkg/source"
	"gitlab.com/tozd/go/errors"

	// Source backends register themselves.
	_ "github.com/walteh/schedsync/pkg/source/git"
	_ "github.com/walteh/schedsync/pkg/source/github"
)

var (
	// Flags
	configFile string
	repoRoot   string
	sourceName string
	githubRepo string
	githubRef  string
	dryRun     bool
	debug      bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schedsync KERNEL_TREE",
		Short:         "mirror scheduler sources into a prepared downstream kernel tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintf(cmd.ErrOrStderr(), "usage: %s\n", cmd.UseLine())
				return errors.Errorf("expected exactly one argument, got %d", len(args))
			}
			return nil
		},
		RunE: runSync,
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (built-in defaults when unset)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringVar(&repoRoot, "repo", ".", "source repository root (git backend)")
	cmd.Flags().StringVar(&sourceName, "source", "git", "source backend: git or github")
	cmd.Flags().StringVar(&githubRepo, "github-repo", "", "owner/name repository (github backend)")
	cmd.Flags().StringVar(&githubRef, "github-ref", "", "ref to enumerate (github backend)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "diff and report without writing")

	cmd.AddCommand(newChainCmd())

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	// Set up logger
	logLevel := zerolog.InfoLevel
	if debug {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.NewConsoleWriter()).Level(logLevel).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	// Load config
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(ctx, configFile)
		if err != nil {
			pterm.Error.Printfln("loading config: %v", err)
			return err
		}
		cfg = loaded
	}

	// Resolve the downstream tree root
	destRoot, err := filepath.Abs(args[0])
	if err != nil {
		pterm.Error.Printfln("resolving downstream root: %v", err)
		return errors.Errorf("resolving downstream root: %w", err)
	}

	// Create source backend
	src, err := source.New(ctx, sourceName, source.Options{
		Root:      repoRoot,
		Repo:      githubRepo,
		Ref:       githubRef,
		Prefix:    cfg.Prefix,
		HeaderDir: cfg.Headers.Dir,
	})
	if err != nil {
		pterm.Error.Printfln("creating %s source: %v", sourceName, err)
		return err
	}

	reporter := log.New(cmd.OutOrStdout(), logLevel)
	reporter.Header(destRoot)

	op, err := operation.NewSyncOperation(operation.Options{
		Config:   cfg,
		Source:   src,
		DestFS:   osfs.New(destRoot),
		Reporter: reporter,
		DryRun:   dryRun,
	})
	if err != nil {
		pterm.Error.Printfln("creating sync operation: %v", err)
		return errors.Errorf("creating sync operation: %w", err)
	}

	report, err := op.Execute(ctx)
	if err != nil {
		var missingErr *operation.MissingDestinationsError
		if errors.As(err, &missingErr) {
			for _, p := range missingErr.Paths {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s does not exist\n", filepath.Join(destRoot, filepath.FromSlash(p)))
			}
			pterm.Error.Printfln("downstream tree is not prepared, nothing was copied")
			return err
		}
		pterm.Error.Printfln("sync failed: %v", err)
		return err
	}

	reporter.LogNewline()
	pterm.Success.Printfln("%s", report.Summary())
	return nil
}
