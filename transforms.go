// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

// Stage name constants for the three built-in transform stages. These
// never filter or score; they annotate State or the server snapshot ahead
// of the filters/scorers that consume them.
const (
	stageOverrideOverprovisioning = "override-overprovisioning"
	stageCalculateRecentVMs       = "calculate-recent-vms"
	stageCalculateLocalityHints   = "calculate-locality-hints"
)

const overrideActiveStateKey = "override-active"

// overrideOverprovisioning marks whether override-overprovisioning is in
// effect for this call: present in the pipeline AND not disabled by
// Defaults.DisableOverrideOverprovisioning. Filters that need to know
// read this back via overrideActive.
type overrideOverprovisioning struct{ BaseAlgorithm }

func newOverrideOverprovisioning() Algorithm {
	return overrideOverprovisioning{BaseAlgorithm{StageName: stageOverrideOverprovisioning, StageKind: KindTransform}}
}

func (o overrideOverprovisioning) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	state.Set(overrideActiveStateKey, constraints.overrideEnabled)
	return StepResult{Servers: servers}
}

// overrideActive reports whether override-overprovisioning ran (and was
// enabled) earlier in this call.
func overrideActive(state *State) bool {
	v, ok := state.Get(overrideActiveStateKey)
	return ok && v.(bool)
}

// calculateRecentVMs projects open tickets not yet reflected in
// server.vms onto a per-call copy of each server. It never mutates the
// caller's Server/VMs values.
type calculateRecentVMs struct{ BaseAlgorithm }

func newCalculateRecentVMs() Algorithm {
	return calculateRecentVMs{BaseAlgorithm{StageName: stageCalculateRecentVMs, StageKind: KindTransform}}
}

func (c calculateRecentVMs) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	out := make([]Server, len(servers))
	for i, s := range servers {
		vms := make(map[string]ServerVM, len(s.VMs))
		for k, v := range s.VMs {
			vms[k] = v
		}
		for _, t := range constraints.Tickets {
			if t.Status != TicketActive || t.ServerUUID != s.UUID || t.VMUUID == "" {
				continue
			}
			if _, exists := vms[t.VMUUID]; exists {
				continue
			}
			vms[t.VMUUID] = ServerVM{
				OwnerUUID:         t.OwnerUUID,
				State:             "provisioning",
				CPUCap:            t.CPUCap,
				MaxPhysicalMemory: t.RAM,
			}
		}
		s.VMs = vms
		out[i] = s
	}
	return StepResult{Servers: out}
}

// calculateLocalityHints resolves affinity+locality once per call and
// stashes the result in State for the locality filters to consume.
type calculateLocalityHints struct{ BaseAlgorithm }

func newCalculateLocalityHints() Algorithm {
	return calculateLocalityHints{BaseAlgorithm{StageName: stageCalculateLocalityHints, StageKind: KindTransform}}
}

func (c calculateLocalityHints) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	state.Set(localityHintsStateKey, ResolveLocality(constraints.VM, servers))
	return StepResult{Servers: servers}
}
