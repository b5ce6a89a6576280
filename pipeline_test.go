// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "testing"

// A pipe must never grow the candidate set, and must be non-increasing
// stage over stage.
func TestInterpreterPipeIsMonotoneNonGrowing(t *testing.T) {
	servers := []Server{testServer(65536, 0.15), testServer(65536, 0.15), testServer(65536, 0.15)}
	servers[0].Setup = false // dropped by hard-filter-setup

	registry := DefaultRegistry()
	ip := NewInterpreter(registry, nil, NewState(), false)
	desc := PipeDescription(StageDescription(stageHardFilterSetup), StageDescription(stageHardFilterRunning))

	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, testPackage(1024), DefaultDefaults())
	out, _, _, steps := ip.Run(desc, servers, constraints)

	if len(out) > len(servers) {
		t.Fatalf("pipe grew the candidate set: %d > %d", len(out), len(servers))
	}
	prev := len(servers)
	for _, step := range steps {
		if step.Remaining > prev {
			t.Fatalf("step %q grew remaining count: %d > %d", step.Stage, step.Remaining, prev)
		}
		prev = step.Remaining
	}
}

// When every branch of an or empties the candidate set, the result must
// be the last branch's output with every branch's reasons merged in.
func TestInterpreterOrFallsBackToLastBranchWhenAllEmpty(t *testing.T) {
	servers := []Server{testServer(65536, 0.15)}
	servers[0].Reserved = true // fails hard-filter-reserved
	servers[0].Headnode = true // also fails hard-filter-headnode

	registry := DefaultRegistry()
	ip := NewInterpreter(registry, nil, NewState(), false)
	desc := OrDescription(StageDescription(stageHardFilterReserved), StageDescription(stageHardFilterHeadnode))

	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, testPackage(1024), DefaultDefaults())
	out, reasons, _, _ := ip.Run(desc, servers, constraints)

	if len(out) != 0 {
		t.Fatalf("expected an empty result, got %d servers", len(out))
	}
	if _, ok := reasons[servers[0].UUID]; !ok {
		t.Fatal("expected a merged rejection reason from the branches")
	}
}

// Or picks the first branch that survives.
func TestInterpreterOrPicksFirstSurvivingBranch(t *testing.T) {
	servers := []Server{testServer(65536, 0.15)}
	servers[0].Reserved = true // fails hard-filter-reserved, passes hard-filter-headnode

	registry := DefaultRegistry()
	ip := NewInterpreter(registry, nil, NewState(), false)
	desc := OrDescription(StageDescription(stageHardFilterReserved), StageDescription(stageHardFilterHeadnode))

	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, testPackage(1024), DefaultDefaults())
	out, _, _, _ := ip.Run(desc, servers, constraints)

	if len(out) != 1 || out[0].UUID != servers[0].UUID {
		t.Fatalf("expected the surviving branch's server, got %+v", out)
	}
}
