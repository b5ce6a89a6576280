// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Description is the recursive algorithm-description sum type: a stage
// names one registry algorithm, and pipe/or compose children without any
// dynamic code evaluation.
//
// Exactly one of Stage/Pipe/Or is populated.
type Description struct {
	Stage string
	Pipe  []Description
	Or    []Description
}

// StageDescription builds a leaf Description naming a registry algorithm.
func StageDescription(name string) Description { return Description{Stage: name} }

// PipeDescription builds a ["pipe", ...] composition.
func PipeDescription(children ...Description) Description { return Description{Pipe: children} }

// OrDescription builds an ["or", ...] alternative.
func OrDescription(children ...Description) Description { return Description{Or: children} }

// MarshalJSON encodes Description as a ["pipe", child, ...] / ["or", ...]
// array, or as a bare string for a Stage leaf.
func (d Description) MarshalJSON() ([]byte, error) {
	switch {
	case d.Pipe != nil:
		return marshalCombinator("pipe", d.Pipe)
	case d.Or != nil:
		return marshalCombinator("or", d.Or)
	default:
		return json.Marshal(d.Stage)
	}
}

func marshalCombinator(tag string, children []Description) ([]byte, error) {
	items := make([]any, 0, len(children)+1)
	items = append(items, tag)
	for _, c := range children {
		items = append(items, c)
	}
	return json.Marshal(items)
}

// UnmarshalJSON decodes either a bare stage-name string or a
// ["pipe"|"or", child, ...] array.
func (d *Description) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*d = Description{Stage: name}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("algorithm description must be a stage name or [\"pipe\"|\"or\", ...]: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("algorithm description array must not be empty")
	}
	var tag string
	if err := json.Unmarshal(items[0], &tag); err != nil {
		return fmt.Errorf("algorithm description array must start with a tag string: %w", err)
	}
	children := make([]Description, 0, len(items)-1)
	for _, raw := range items[1:] {
		var child Description
		if err := json.Unmarshal(raw, &child); err != nil {
			return err
		}
		children = append(children, child)
	}
	switch tag {
	case "pipe":
		*d = Description{Pipe: children}
	case "or":
		*d = Description{Or: children}
	default:
		return fmt.Errorf("unknown algorithm description tag %q", tag)
	}
	return nil
}

// MarshalYAML mirrors MarshalJSON's bare-string/tagged-sequence shape, for
// hosts that keep a pipeline description in a YAML file.
func (d Description) MarshalYAML() (any, error) {
	switch {
	case d.Pipe != nil:
		return combinatorSequence("pipe", d.Pipe), nil
	case d.Or != nil:
		return combinatorSequence("or", d.Or), nil
	default:
		return d.Stage, nil
	}
}

func combinatorSequence(tag string, children []Description) []any {
	items := make([]any, 0, len(children)+1)
	items = append(items, tag)
	for _, c := range children {
		items = append(items, c)
	}
	return items
}

// UnmarshalYAML decodes either a bare stage-name scalar or a
// [pipe|or, child, ...] sequence node.
func (d *Description) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		*d = Description{Stage: name}
		return nil
	}
	if node.Kind != yaml.SequenceNode || len(node.Content) == 0 {
		return fmt.Errorf("algorithm description must be a stage name or a [pipe|or, ...] sequence")
	}
	var tag string
	if err := node.Content[0].Decode(&tag); err != nil {
		return fmt.Errorf("algorithm description sequence must start with a tag string: %w", err)
	}
	children := make([]Description, 0, len(node.Content)-1)
	for _, raw := range node.Content[1:] {
		var child Description
		if err := raw.Decode(&child); err != nil {
			return err
		}
		children = append(children, child)
	}
	switch tag {
	case "pipe":
		*d = Description{Pipe: children}
	case "or":
		*d = Description{Or: children}
	default:
		return fmt.Errorf("unknown algorithm description tag %q", tag)
	}
	return nil
}

// StepResult is what one algorithm stage returns to the interpreter.
type StepResult struct {
	Servers     []Server
	Reasons     map[string]string // server uuid -> rejection reason
	ScoreDeltas map[string]float64
}

// StepLogEntry is one entry of the ordered per-stage step log returned by
// Allocate: how many servers a stage kept and how many it removed.
type StepLogEntry struct {
	Stage     string
	Remaining int
	Removed   int
}

// Interpreter runs a Description against the Algorithm Registry.
type Interpreter struct {
	registry    *Registry
	log         Logger
	state       *State
	capacity    bool
	collectLogs bool
}

// NewInterpreter builds an Interpreter bound to registry/state for one
// Allocate call.
func NewInterpreter(registry *Registry, log Logger, state *State, capacityMode bool) *Interpreter {
	return &Interpreter{registry: registry, log: log, state: state, capacity: capacityMode, collectLogs: true}
}

// interpretResult is the internal threading of survivors + accumulated
// reasons/scores/step-log through the recursive Run.
type interpretResult struct {
	servers []Server
	reasons map[string]string
	scores  map[string]float64
	steps   []StepLogEntry
}

func newInterpretResult(servers []Server) interpretResult {
	return interpretResult{
		servers: servers,
		reasons: map[string]string{},
		scores:  map[string]float64{},
	}
}

// Run executes desc against servers/constraints.
func (ip *Interpreter) Run(desc Description, servers []Server, constraints Constraints) (servers_ []Server, reasons map[string]string, scores map[string]float64, steps []StepLogEntry) {
	result := ip.run(desc, servers, constraints)
	return result.servers, result.reasons, result.scores, result.steps
}

func (ip *Interpreter) run(desc Description, servers []Server, constraints Constraints) interpretResult {
	switch {
	case desc.Pipe != nil:
		return ip.runPipe(desc.Pipe, servers, constraints)
	case desc.Or != nil:
		return ip.runOr(desc.Or, servers, constraints)
	default:
		return ip.runStage(desc.Stage, servers, constraints)
	}
}

func (ip *Interpreter) runPipe(children []Description, servers []Server, constraints Constraints) interpretResult {
	acc := newInterpretResult(servers)
	for _, child := range children {
		step := ip.run(child, acc.servers, constraints)
		acc.servers = step.servers
		mergeReasons(acc.reasons, step.reasons)
		mergeScores(acc.scores, step.scores)
		acc.steps = append(acc.steps, step.steps...)
		if len(acc.servers) == 0 && !ip.capacity {
			break
		}
	}
	return acc
}

func (ip *Interpreter) runOr(children []Description, servers []Server, constraints Constraints) interpretResult {
	var last interpretResult
	allReasons := map[string]string{}
	for i, child := range children {
		step := ip.run(child, servers, constraints)
		mergeReasons(allReasons, step.reasons)
		last = step
		if len(step.servers) > 0 {
			// Merge diagnostics from earlier, emptier branches too, per the
			// or-fallback-diagnostics supplement, so a caller can see why
			// the branches that were skipped would have failed.
			mergeReasons(step.reasons, allReasons)
			return step
		}
		if i == len(children)-1 {
			mergeReasons(last.reasons, allReasons)
		}
	}
	return last
}

func (ip *Interpreter) runStage(name string, servers []Server, constraints Constraints) interpretResult {
	algo, ok := ip.registry.Lookup(name)
	if !ok {
		// An unresolvable stage name is a configuration error, not a
		// per-server rejection; surface it by rejecting every server with
		// a single diagnostic reason rather than panicking mid-pipeline.
		result := newInterpretResult(nil)
		for _, s := range servers {
			result.reasons[s.UUID] = fmt.Sprintf("unknown algorithm %q", name)
		}
		result.steps = []StepLogEntry{{Stage: name, Remaining: 0, Removed: len(servers)}}
		return result
	}

	stepLog := ip.log
	if stepLog != nil {
		stepLog = loggerWith(stepLog, "stage", name)
	}

	var out StepResult
	if ip.capacity && !algo.AffectsCapacity() {
		// Stages that don't affect capacity behave exactly as in normal
		// mode: they still filter, even while the pipeline as a whole is
		// in capacity mode.
		out = algo.Run(stepLog, ip.state, servers, constraints)
	} else if ip.capacity {
		out = algo.RunCapacity(stepLog, ip.state, servers, constraints)
	} else {
		out = algo.Run(stepLog, ip.state, servers, constraints)
	}

	result := interpretResult{
		servers: out.Servers,
		reasons: map[string]string{},
		scores:  map[string]float64{},
		steps:   []StepLogEntry{{Stage: name, Remaining: len(out.Servers), Removed: len(servers) - len(out.Servers)}},
	}
	// Rejection reasons are only meaningful in normal mode; capacity mode
	// reports live in State instead.
	if !ip.capacity {
		mergeReasons(result.reasons, out.Reasons)
	}
	mergeScores(result.scores, out.ScoreDeltas)
	return result
}

func mergeReasons(dst, src map[string]string) {
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
}

func mergeScores(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] += v
	}
}
