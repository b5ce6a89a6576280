// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Stage name constants for the six built-in scorers.
const (
	stageScoreCurrentPlatform = "score-current-platform"
	stageScoreNextReboot      = "score-next-reboot"
	stageScoreNumOwnerZones   = "score-num-owner-zones"
	stageScoreUnreservedRAM   = "score-unreserved-ram"
	stageScoreUnreservedDisk  = "score-unreserved-disk"
	stageScoreUniformRandom   = "score-uniform-random"
)

// scoreByRank implements the rank-based weighting rule common to every
// scorer: each server's score increases by a non-negative amount
// proportional to its rank along one dimension, times |weight|. A
// negative weight inverts which end of the ranking scores highest, but
// the contribution itself is never negative. With fewer than two servers
// there is nothing to rank, so every survivor scores 0.
func scoreByRank(servers []Server, weight float64, less func(a, b Server) bool) map[string]float64 {
	out := make(map[string]float64, len(servers))
	n := len(servers)
	if n < 2 {
		for _, s := range servers {
			out[s.UUID] = 0
		}
		return out
	}

	ordered := append([]Server(nil), servers...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if less(ordered[i], ordered[j]) {
			return true
		}
		if less(ordered[j], ordered[i]) {
			return false
		}
		return ordered[i].UUID < ordered[j].UUID
	})

	abs := weight
	if abs < 0 {
		abs = -abs
	}
	invert := weight < 0
	for rank, s := range ordered {
		r := rank
		if invert {
			r = n - 1 - rank
		}
		out[s.UUID] = float64(r) / float64(n-1) * abs
	}
	return out
}

type rankScorer struct {
	BaseAlgorithm
	weightOf func(Defaults) float64
	less     func(a, b Server) bool
}

func (s rankScorer) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	weight := s.weightOf(constraints.Defaults)
	return StepResult{Servers: servers, ScoreDeltas: scoreByRank(servers, weight, s.less)}
}

// newScoreCurrentPlatform: a newer Live Image ranks higher (default
// weight 1).
func newScoreCurrentPlatform() Algorithm {
	return rankScorer{
		BaseAlgorithm: BaseAlgorithm{StageName: stageScoreCurrentPlatform, StageKind: KindScorer},
		weightOf:      func(d Defaults) float64 { return defaultWeight(d.WeightCurrentPlatform, 1) },
		less:          func(a, b Server) bool { return strings.Compare(a.SysInfo.LiveImage, b.SysInfo.LiveImage) < 0 },
	}
}

// newScoreNextReboot: a farther-future scheduled reboot ranks higher
// (default weight 0.5).
func newScoreNextReboot() Algorithm {
	return rankScorer{
		BaseAlgorithm: BaseAlgorithm{StageName: stageScoreNextReboot, StageKind: KindScorer},
		weightOf:      func(d Defaults) float64 { return defaultWeight(d.WeightNextReboot, 0.5) },
		less:          func(a, b Server) bool { return strings.Compare(a.SysInfo.NextReboot, b.SysInfo.NextReboot) < 0 },
	}
}

// scoreNumOwnerZones: fewer zones already owned by vm.owner_uuid on that
// server ranks higher (default weight 0). Needs constraints.VM.OwnerUUID,
// so unlike the other scorers it can't be a bare rankScorer closure.
type scoreNumOwnerZones struct{ BaseAlgorithm }

func newScoreNumOwnerZones() Algorithm {
	return scoreNumOwnerZones{BaseAlgorithm{StageName: stageScoreNumOwnerZones, StageKind: KindScorer}}
}

func (s scoreNumOwnerZones) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	owner := constraints.VM.OwnerUUID
	less := func(a, b Server) bool {
		// fewer-is-better: sort descending by count so the emptiest
		// server lands at the high-ranking end of the ascending sort.
		return ownerZoneCount(a, owner) > ownerZoneCount(b, owner)
	}
	weight := defaultWeight(constraints.Defaults.WeightNumOwnerZones, 0)
	return StepResult{Servers: servers, ScoreDeltas: scoreByRank(servers, weight, less)}
}

func ownerZoneCount(s Server, owner string) int {
	count := 0
	for _, vm := range s.VMs {
		if vm.OwnerUUID == owner {
			count++
		}
	}
	return count
}

// newScoreUnreservedRAM: more unreserved RAM ranks higher (default
// weight 2).
func newScoreUnreservedRAM() Algorithm {
	return rankScorer{
		BaseAlgorithm: BaseAlgorithm{StageName: stageScoreUnreservedRAM, StageKind: KindScorer},
		weightOf:      func(d Defaults) float64 { return defaultWeight(d.WeightUnreservedRAM, 2) },
		less:          func(a, b Server) bool { return a.Derived.UnreservedRAM < b.Derived.UnreservedRAM },
	}
}

// newScoreUnreservedDisk: more unreserved disk ranks higher (default
// weight 1).
func newScoreUnreservedDisk() Algorithm {
	return rankScorer{
		BaseAlgorithm: BaseAlgorithm{StageName: stageScoreUnreservedDisk, StageKind: KindScorer},
		weightOf:      func(d Defaults) float64 { return defaultWeight(d.WeightUnreservedDisk, 1) },
		less:          func(a, b Server) bool { return a.Derived.UnreservedDisk < b.Derived.UnreservedDisk },
	}
}

// defaultWeight treats a nil weight as "use the documented default" and
// an explicit zero as what it says: disable this scorer's contribution.
func defaultWeight(configured *float64, fallback float64) float64 {
	if configured == nil {
		return fallback
	}
	return *configured
}

const uniformRandomStateKey = "score-uniform-random-rng"

// rngFromState returns the Allocator's single PRNG for score-uniform-random,
// creating one seeded from wall-clock time the first time it's needed.
// WithSeed seeds this slot explicitly at construction for reproducible
// runs.
func rngFromState(state *State) *rand.Rand {
	if v, ok := state.Get(uniformRandomStateKey); ok {
		return v.(*rand.Rand)
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	state.Set(uniformRandomStateKey, r)
	return r
}

// scoreUniformRandom assigns each survivor a uniform random score,
// weighted (default weight 0.5). Reproducible across calls when the
// Allocator was built with WithSeed.
type scoreUniformRandom struct{ BaseAlgorithm }

func newScoreUniformRandom() Algorithm {
	return scoreUniformRandom{BaseAlgorithm{StageName: stageScoreUniformRandom, StageKind: KindScorer}}
}

func (s scoreUniformRandom) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	weight := defaultWeight(constraints.Defaults.WeightUniformRandom, 0.5)
	rng := rngFromState(state)
	deltas := make(map[string]float64, len(servers))
	for _, srv := range servers {
		deltas[srv.UUID] = rng.Float64() * weight
	}
	return StepResult{Servers: servers, ScoreDeltas: deltas}
}
