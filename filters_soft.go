// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"math"
	"sort"
)

// Stage name constants for the two built-in soft filters.
const (
	stageSoftFilterLocalityHints = "soft-filter-locality-hints"
	stageSoftFilterRecentServers = "soft-filter-recent-servers"
)

// softFilterLocalityHints prefers near servers and avoids far ones, but
// only when doing so leaves at least one candidate.
type softFilterLocalityHints struct{ BaseAlgorithm }

func newSoftFilterLocalityHints() Algorithm {
	return softFilterLocalityHints{BaseAlgorithm{StageName: stageSoftFilterLocalityHints, StageKind: KindSoftFilter}}
}

func (f softFilterLocalityHints) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	hints := localityHintsFromState(state, constraints.VM, servers)

	avoidFar := without(servers, hints.SoftFar)
	if len(avoidFar) > 0 {
		servers = avoidFar
	}

	if len(hints.SoftNear) > 0 {
		preferred := only(servers, hints.SoftNear)
		if len(preferred) > 0 {
			servers = preferred
		}
	}

	return StepResult{Servers: servers}
}

func without(servers []Server, exclude map[string]struct{}) []Server {
	out := make([]Server, 0, len(servers))
	for _, s := range servers {
		if _, excluded := exclude[s.UUID]; !excluded {
			out = append(out, s)
		}
	}
	return out
}

func only(servers []Server, include map[string]struct{}) []Server {
	out := make([]Server, 0, len(servers))
	for _, s := range servers {
		if _, ok := include[s.UUID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// softFilterRecentServers drops up to 25% of the current candidates that
// were recently used, dropping the most-recently-used ones first.
type softFilterRecentServers struct{ BaseAlgorithm }

func newSoftFilterRecentServers() Algorithm {
	return softFilterRecentServers{BaseAlgorithm{StageName: stageSoftFilterRecentServers, StageKind: KindSoftFilter}}
}

func (f softFilterRecentServers) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	rs := recentServersFromState(state)
	rs.purge()

	recent := make([]Server, 0)
	other := make([]Server, 0, len(servers))
	for _, s := range servers {
		if rs.isRecent(s.UUID) {
			recent = append(recent, s)
		} else {
			other = append(other, s)
		}
	}
	if len(recent) == 0 {
		return StepResult{Servers: servers}
	}

	sort.Slice(recent, func(i, j int) bool {
		ti, tj := rs.recencyOf(recent[i].UUID), rs.recencyOf(recent[j].UUID)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return recent[i].UUID < recent[j].UUID
	})

	maxDrop := int(math.Ceil(float64(len(servers)) * recentServerSoftCapFraction))
	drop := len(recent)
	if drop > maxDrop {
		drop = maxDrop
	}

	kept := append([]Server(nil), other...)
	kept = append(kept, recent[drop:]...)
	return StepResult{Servers: kept}
}
