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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent file entries
	nameWidth     = 40 // base width for destination path
	categoryWidth = 14 // width for mapping category
)

// 🎯 FileOperation represents a single sync decision for logging
type FileOperation struct {
	Dest        string // destination path relative to the downstream root
	Source      string // originating tracked source path
	Category    string // mapping category (header/sched-broad/sched-narrow)
	IsCopied    bool   // content differed and was written
	IsSkipped   bool   // content matched, nothing written
	IsRewritten bool   // manifest rewrite changed the effective content
}

// 🎯 Reporter prints per-file sync lines to the console and mirrors them to
// structured logs
type Reporter struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	operations []FileOperation
}

// 🏭 New creates a new reporter
func New(console io.Writer, level zerolog.Level) *Reporter {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Reporter{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatFileOperation formats a sync decision for display
func (r *Reporter) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsCopied:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	status := "skipped"
	if op.IsCopied {
		status = "copied"
	}
	if op.IsRewritten {
		status += " (rewritten)"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Dest),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", categoryWidth, op.Category)),
		status)
}

// 📝 LogFileOperation logs a sync decision
func (r *Reporter) LogFileOperation(ctx context.Context, op FileOperation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.operations = append(r.operations, op)

	fmt.Fprintln(r.console, r.formatFileOperation(op))

	r.zlog.Info().
		Str("dest", op.Dest).
		Str("source", op.Source).
		Str("category", op.Category).
		Bool("is_copied", op.IsCopied).
		Bool("is_skipped", op.IsSkipped).
		Bool("is_rewritten", op.IsRewritten).
		Msg("file operation")
}

// 📝 Header prints the tool banner with the downstream root
func (r *Reporter) Header(root string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("schedsync")
	fmt.Fprintf(r.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+root))
	r.zlog.Info().Str("root", root).Msg("syncing downstream tree")
}

// 📝 LogNewline logs a newline
func (r *Reporter) LogNewline() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.console)
}

// 📊 Operations returns the recorded operations in order
func (r *Reporter) Operations() []FileOperation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FileOperation(nil), r.operations...)
}
