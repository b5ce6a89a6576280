// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"math/rand"
	"sort"
)

// Allocator is the decision function: given a candidate server list and a
// VM/image/package/ticket request, it picks one server or explains why it
// could not. One instance owns one State and one recentServers memory;
// concurrent Allocate calls on the same instance are the caller's
// responsibility to serialize.
type Allocator struct {
	log        Logger
	registry   *Registry
	pipeline   Description
	defaults   Defaults
	state      *State
}

// Option configures an Allocator at construction time.
type Option func(*Allocator)

// WithSeed seeds score-uniform-random's PRNG, so that two allocators
// built with the same seed and given the same inputs choose the same
// server every time.
func WithSeed(seed int64) Option {
	return func(a *Allocator) {
		a.state.Set(uniformRandomStateKey, rand.New(rand.NewSource(seed)))
	}
}

// WithPipeline overrides the default pipeline description.
func WithPipeline(desc Description) Option {
	return func(a *Allocator) { a.pipeline = desc }
}

// WithRegistry overrides the algorithm registry, e.g. to add custom
// stages alongside the built-ins.
func WithRegistry(registry *Registry) Option {
	return func(a *Allocator) { a.registry = registry }
}

// NewAllocator builds an Allocator. log may be nil (a no-op logger is
// used); defaults is kept as given and is not layered over
// DefaultDefaults (LoadDefaults does that layering for a JSON record).
func NewAllocator(log Logger, defaults Defaults, opts ...Option) *Allocator {
	if log == nil {
		log = noopLogger{}
	}
	a := &Allocator{
		log:      log,
		registry: DefaultRegistry(),
		pipeline: DefaultPipeline(),
		defaults: defaults,
		state:    NewState(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is what Allocate returns.
type Result struct {
	Chosen  *Server
	Steps   []StepLogEntry
	Reasons map[string]string

	// Capacity is populated only when Allocate was called with
	// checkCapacity=true: per surviving server, the maximum RAM/CPU/disk
	// a request could have demanded and still passed every
	// capacity-affecting hard filter.
	Capacity map[string]CapacityReport
}

// Allocate runs the Facade algorithm end to end: validate, resolve
// constraints, derive server capacity, run the pipeline, then pick and
// report a winner (or why none survived).
func (a *Allocator) Allocate(servers []Server, vm VMRequest, image ImageManifest, pkg Package, tickets []Ticket, checkCapacity bool) (Result, error) {
	// Step 1: validate all inputs, fail on first invalid one.
	if err := ValidateVM(vm, &image); err != nil {
		return Result{}, err
	}
	if err := ValidateImage(image); err != nil {
		return Result{}, err
	}
	if err := ValidatePackage(pkg); err != nil {
		return Result{}, err
	}
	for _, t := range tickets {
		if err := ValidateTicket(t); err != nil {
			return Result{}, err
		}
	}
	if err := ValidateDefaults(a.defaults); err != nil {
		return Result{}, err
	}

	// Step 2: merge defaults with package/image into constraints. The
	// package's alloc_server_spread (or, absent that, the defaults
	// record's own server_spread) is deprecated sugar for scoring
	// weights.
	defaults := a.defaults
	spread := pkg.AllocServerSpread
	if spread == "" {
		spread = defaults.ServerSpread
	}
	if spread != "" {
		defaults = applyServerSpread(defaults, spread)
	}
	constraints := ResolveConstraints(vm, image, pkg, defaults)
	constraints.Tickets = tickets

	ip := NewInterpreter(a.registry, a.log, a.state, checkCapacity)

	// Step 3 (ticket projection, as in calculate-recent-vms) and step 4
	// (Server Derivation) run here, before the configured pipeline, since
	// hard/soft filters consume their output. Server Derivation itself is
	// not a stage: every algorithm expects Derived to already be
	// populated. Step 5 (calculate-locality-hints) runs as a stage of the
	// pipeline; when a custom pipeline omits it, the locality filters
	// resolve the hints themselves.
	working := append([]Server(nil), servers...)
	projected := projectTickets(working, tickets)
	a.deriveAll(projected, constraints)

	// Step 6: execute the configured pipeline description.
	survivors, reasons, scores, steps := ip.Run(a.pipeline, projected, constraints)

	if checkCapacity {
		return Result{Steps: steps, Reasons: reasons, Capacity: CapacityReports(a.state)}, nil
	}

	// Step 7: pick the max-score survivor, ties broken by smallest UUID.
	chosen := pickMaxScore(survivors, scores)

	// Step 8: fire every stage's post-hook with the chosen server.
	a.firePostHooks(chosen)

	result := Result{Chosen: chosen, Steps: steps, Reasons: reasons}
	if chosen == nil && result.Reasons == nil {
		result.Reasons = map[string]string{}
	}
	return result, nil
}

// projectTickets is the standalone equivalent of the calculate-recent-vms
// stage, run unconditionally ahead of Server Derivation regardless of
// whether the configured pipeline also names that stage: the projection
// always happens; the named stage exists so a custom pipeline can still
// see/reorder it explicitly.
func projectTickets(servers []Server, tickets []Ticket) []Server {
	out := make([]Server, len(servers))
	for i, s := range servers {
		vms := make(map[string]ServerVM, len(s.VMs))
		for k, v := range s.VMs {
			vms[k] = v
		}
		for _, t := range tickets {
			if t.Status != TicketActive || t.ServerUUID != s.UUID || t.VMUUID == "" {
				continue
			}
			if _, exists := vms[t.VMUUID]; exists {
				continue
			}
			vms[t.VMUUID] = ServerVM{OwnerUUID: t.OwnerUUID, State: "provisioning", CPUCap: t.CPUCap, MaxPhysicalMemory: t.RAM}
		}
		s.VMs = vms
		out[i] = s
	}
	return out
}

// deriveAll runs Server Derivation on every server in place, using
// ratios resolved from the package/server/defaults
// precedence. Whether override-overprovisioning is in effect is decided
// entirely by Defaults.DisableOverrideOverprovisioning (constraints.
// overrideEnabled), independent of whether a custom pipeline also includes
// the override-overprovisioning stage — that stage exists so later
// filters can see the same decision via State, not to gate Derivation.
func (a *Allocator) deriveAll(servers []Server, constraints Constraints) {
	for i := range servers {
		ratios := constraints.ResolveRatios(servers[i], constraints.overrideEnabled)
		DeriveServer(&servers[i], ratios)
	}
}

// pickMaxScore picks the highest-scoring survivor, breaking ties by the
// smallest UUID so the choice is stable across runs.
func pickMaxScore(servers []Server, scores map[string]float64) *Server {
	if len(servers) == 0 {
		return nil
	}
	ordered := append([]Server(nil), servers...)
	sort.Slice(ordered, func(i, j int) bool {
		si, sj := scores[ordered[i].UUID], scores[ordered[j].UUID]
		if si != sj {
			return si > sj
		}
		return ordered[i].UUID < ordered[j].UUID
	})
	chosen := ordered[0]
	return &chosen
}

// firePostHooks runs every registered algorithm's Post hook against the
// chosen server, so stages like hard-filter-recent-servers can update
// State.
func (a *Allocator) firePostHooks(chosen *Server) {
	for _, algo := range a.registry.All() {
		algo.Post(a.log, a.state, chosen)
	}
}

// DefaultLogger returns a Logger backed by slog.Default(), for callers that
// don't want to wire up their own *slog.Logger.
func DefaultLogger() Logger { return NewSlogLogger(nil) }
