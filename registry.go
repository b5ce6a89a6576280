// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "fmt"

// AlgorithmKind distinguishes how the interpreter treats a stage's output:
// filters drop servers, scorers accumulate score deltas, transforms adjust
// state (e.g. calculate-recent-vms) without filtering or scoring.
type AlgorithmKind string

const (
	KindHardFilter AlgorithmKind = "hard-filter"
	KindSoftFilter AlgorithmKind = "soft-filter"
	KindScorer     AlgorithmKind = "scorer"
	KindTransform  AlgorithmKind = "transform"
)

// Algorithm is the plugin interface every pipeline stage implements.
type Algorithm interface {
	Name() string
	Kind() AlgorithmKind

	// Run executes the stage in normal mode.
	Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult

	// RunCapacity executes the stage in capacity mode: a hard filter must
	// not remove any server, only annotate it with the maximum request it
	// would have admitted. Stages that don't affect capacity
	// (AffectsCapacity()==false) are never asked to do this; the
	// interpreter calls Run for them even in capacity mode.
	RunCapacity(log Logger, state *State, servers []Server, constraints Constraints) StepResult

	// AffectsCapacity reports whether this stage participates in
	// capacity-mode rewriting at all.
	AffectsCapacity() bool

	// Post fires once, after the Facade has chosen a server, with the
	// chosen server (or nil if none was chosen). Most stages no-op here;
	// hard-filter-recent-servers uses it to record the selection.
	Post(log Logger, state *State, chosen *Server)
}

// BaseAlgorithm supplies the no-op defaults most stages want, following the
// teacher's lib.BaseStep embedding pattern
// (internal/scheduling/lib/filter_weigher_pipeline.go) generalized from a
// k8s-client lifecycle to this package's pure in-memory one.
type BaseAlgorithm struct {
	StageName  string
	StageKind  AlgorithmKind
	CapacityOK bool
}

func (b BaseAlgorithm) Name() string { return b.StageName }
func (b BaseAlgorithm) Kind() AlgorithmKind { return b.StageKind }
func (b BaseAlgorithm) AffectsCapacity() bool { return b.CapacityOK }
func (b BaseAlgorithm) Post(Logger, *State, *Server) {}

// RunCapacity's default does not run the stage: it returns every server
// unchanged and records nothing. Stages that report a capacity figure
// (min-ram, min-cpu, min-disk, min-free-disk, force-failure) override
// this method.
func (b BaseAlgorithm) RunCapacity(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	return StepResult{Servers: servers}
}

// Registry maps stage name -> Algorithm, built once per Allocator
// construction. There is no dynamic runtime loading: every stage name a
// pipeline description can reference must already be registered.
type Registry struct {
	algorithms map[string]Algorithm
}

// NewRegistry builds a Registry from the given algorithms, erroring on
// duplicate names.
func NewRegistry(algorithms ...Algorithm) (*Registry, error) {
	r := &Registry{algorithms: make(map[string]Algorithm, len(algorithms))}
	for _, a := range algorithms {
		if _, exists := r.algorithms[a.Name()]; exists {
			return nil, fmt.Errorf("duplicate algorithm name %q", a.Name())
		}
		r.algorithms[a.Name()] = a
	}
	return r, nil
}

// Lookup finds an algorithm by name.
func (r *Registry) Lookup(name string) (Algorithm, bool) {
	a, ok := r.algorithms[name]
	return a, ok
}

// All returns every registered algorithm, for the Facade's post-hook pass.
func (r *Registry) All() []Algorithm {
	out := make([]Algorithm, 0, len(r.algorithms))
	for _, a := range r.algorithms {
		out = append(out, a)
	}
	return out
}

// DefaultRegistry builds the registry of every built-in hard filter, soft
// filter, scorer, and transform this package ships.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultAlgorithms()...)
	if err != nil {
		// Only reachable if a built-in name collides with another; a
		// programming error, not a runtime condition a caller can act on.
		panic(err)
	}
	return r
}

func defaultAlgorithms() []Algorithm {
	algos := []Algorithm{
		newHardFilterSetup(),
		newHardFilterRunning(),
		newHardFilterReserved(),
		newHardFilterReservoir(),
		newHardFilterHeadnode(),
		newHardFilterVirtualServers(),
		newHardFilterInvalidServers(),
		newHardFilterMinRAM(),
		newHardFilterMinCPU(),
		newHardFilterMinDisk(),
		newHardFilterMinFreeDisk(),
		newHardFilterOverprovisionRatios(),
		newHardFilterPlatformVersions(),
		newHardFilterFeatureMinPlatform(),
		newHardFilterTraits(),
		newHardFilterVLANs(),
		newHardFilterVMCount(),
		newHardFilterLargeServers(),
		newHardFilterRecentServers(),
		newHardFilterForceFailure(),
		newHardFilterLocalityHints(),
		newHardFilterVolumesFrom(),
		newSoftFilterLocalityHints(),
		newSoftFilterRecentServers(),
		newScoreCurrentPlatform(),
		newScoreNextReboot(),
		newScoreNumOwnerZones(),
		newScoreUnreservedRAM(),
		newScoreUnreservedDisk(),
		newScoreUniformRandom(),
		newCalculateRecentVMs(),
		newCalculateLocalityHints(),
		newOverrideOverprovisioning(),
	}
	return algos
}

// DefaultPipeline is the complete documented pipeline run when the caller
// configures none: hard filters first, soft filters next, then scorers.
//
// hard-filter-recent-servers is registered but deliberately left out of
// this pipeline: it and soft-filter-recent-servers are alternates (the
// soft filter removes up to 25% of recent servers, the hard variant may
// drop them all), and the documented default behavior is the softer one.
// A caller wanting the stricter variant builds a custom pipeline with
// WithPipeline.
func DefaultPipeline() Description {
	return PipeDescription(
		StageDescription(stageOverrideOverprovisioning),
		StageDescription(stageCalculateRecentVMs),
		StageDescription(stageCalculateLocalityHints),
		StageDescription(stageHardFilterForceFailure),
		StageDescription(stageHardFilterInvalidServers),
		StageDescription(stageHardFilterSetup),
		StageDescription(stageHardFilterRunning),
		StageDescription(stageHardFilterReserved),
		StageDescription(stageHardFilterReservoir),
		StageDescription(stageHardFilterHeadnode),
		StageDescription(stageHardFilterVirtualServers),
		StageDescription(stageHardFilterOverprovisionRatios),
		StageDescription(stageHardFilterMinRAM),
		StageDescription(stageHardFilterMinCPU),
		StageDescription(stageHardFilterMinDisk),
		StageDescription(stageHardFilterMinFreeDisk),
		StageDescription(stageHardFilterPlatformVersions),
		StageDescription(stageHardFilterFeatureMinPlatform),
		StageDescription(stageHardFilterTraits),
		StageDescription(stageHardFilterVLANs),
		StageDescription(stageHardFilterVMCount),
		StageDescription(stageHardFilterVolumesFrom),
		StageDescription(stageHardFilterLocalityHints),
		StageDescription(stageHardFilterLargeServers),
		StageDescription(stageSoftFilterLocalityHints),
		StageDescription(stageSoftFilterRecentServers),
		StageDescription(stageScoreCurrentPlatform),
		StageDescription(stageScoreNextReboot),
		StageDescription(stageScoreNumOwnerZones),
		StageDescription(stageScoreUnreservedRAM),
		StageDescription(stageScoreUnreservedDisk),
		StageDescription(stageScoreUniformRandom),
	)
}
