// Package chain serializes otherwise-independent build targets into a linear
// dependency chain. Each chained target internally fans out into many
// parallel compiler invocations; threading them one after another bounds
// worker-process contention without touching targets outside the chain.
package chain

import (
	"gitlab.com/tozd/go/errors"
)

// Target is a single build-target declaration handed to the external build
// engine. The engine owns scheduling; a Target only states what to run and
// which declarations must complete first.
type Target struct {
	Name        string   // unique target name
	Output      string   // output marker file, may be empty for phony targets
	Command     []string // command to run
	Deps        []string // names of targets this one depends on
	AlwaysStale bool     // re-evaluate on every invocation regardless of outputs
	Default     bool     // part of the default build goal set
}

// Accumulator threads the chain tail through successive Link calls. The zero
// value is the empty chain.
type Accumulator struct {
	tail   string
	linked []string
}

// Tail returns the name of the most recently linked target, or "" for the
// empty chain.
func (a Accumulator) Tail() string {
	return a.tail
}

// Linked returns the names of all chained targets in link order.
func (a Accumulator) Linked() []string {
	return append([]string(nil), a.linked...)
}

// Link adds one target to the chain: the returned target depends on the prior
// tail (if any) and is marked always-stale, and the returned accumulator's
// tail is this target. The input target is not mutated.
func Link(acc Accumulator, t Target) (Target, Accumulator) {
	linked := t
	linked.Deps = append([]string(nil), t.Deps...)
	if acc.tail != "" {
		linked.Deps = append(linked.Deps, acc.tail)
	}
	linked.AlwaysStale = true

	next := Accumulator{
		tail:   linked.Name,
		linked: append(append([]string(nil), acc.linked...), linked.Name),
	}
	return linked, next
}

// Serialize chains the given targets in declaration order and appends an
// aggregate target that transitively depends on the whole chain. The
// aggregate is flagged as a default goal; chained targets themselves are not.
// The induced dependency graph is a simple path over the chained set.
func Serialize(targets []Target, aggregate string) ([]Target, error) {
	if aggregate == "" {
		return nil, errors.New("aggregate target name is required")
	}

	seen := make(map[string]struct{}, len(targets)+1)
	out := make([]Target, 0, len(targets)+1)

	var acc Accumulator
	for _, t := range targets {
		if t.Name == "" {
			return nil, errors.New("target name is required")
		}
		if _, dup := seen[t.Name]; dup {
			return nil, errors.Errorf("duplicate target name: %s", t.Name)
		}
		seen[t.Name] = struct{}{}

		linked, next := Link(acc, t)
		out = append(out, linked)
		acc = next
	}

	if _, dup := seen[aggregate]; dup {
		return nil, errors.Errorf("aggregate name collides with target: %s", aggregate)
	}

	agg := Target{
		Name:        aggregate,
		AlwaysStale: true,
		Default:     true,
	}
	if acc.Tail() != "" {
		agg.Deps = []string{acc.Tail()}
	}
	out = append(out, agg)

	return out, nil
}

// Engine receives target declarations. Implementations hand them to the
// external build system, which is responsible for honoring declared
// dependency edges.
type Engine interface {
	Declare(t Target) error
}

// Declare feeds a declaration sequence to an engine, stopping at the first
// error.
func Declare(eng Engine, targets []Target) error {
	for _, t := range targets {
		if err := eng.Declare(t); err != nil {
			return errors.Errorf("declaring target %s: %w", t.Name, err)
		}
	}
	return nil
}

// Recorder is an Engine that captures declarations in order, for tests and
// for rendering declarations without a live build engine.
type Recorder struct {
	Targets []Target
}

// Declare implements Engine.Declare
func (r *Recorder) Declare(t Target) error {
	r.Targets = append(r.Targets, t)
	return nil
}
