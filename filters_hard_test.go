// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"testing"

	"github.com/cobaltcore-dev/designation/internal/testutil"
)

func TestHardFilterMinRAMDropsInsufficientServers(t *testing.T) {
	enough := testServer(65536, 0.15)
	DeriveServer(&enough, Ratios{CPU: 1, RAM: 1, Disk: 1})
	starved := testServer(1024, 0.9)
	DeriveServer(&starved, Ratios{CPU: 1, RAM: 1, Disk: 1})

	constraints := ResolveConstraints(testVM(newUUID(), 4096), ImageManifest{}, testPackage(4096), DefaultDefaults())
	result := newHardFilterMinRAM().Run(nil, NewState(), []Server{enough, starved}, constraints)

	if len(result.Servers) != 1 || result.Servers[0].UUID != enough.UUID {
		t.Fatalf("expected only the sufficiently-provisioned server to survive, got %+v", result.Servers)
	}
	if _, ok := result.Reasons[starved.UUID]; !ok {
		t.Fatal("expected a rejection reason for the starved server")
	}
}

// Capacity mode never removes a server, only records the binding figure.
func TestHardFilterMinRAMCapacityModeKeepsEverything(t *testing.T) {
	s := testServer(1024, 0.9)
	DeriveServer(&s, Ratios{CPU: 1, RAM: 1, Disk: 1})
	state := NewState()
	constraints := ResolveConstraints(testVM(newUUID(), 4096), ImageManifest{}, testPackage(4096), DefaultDefaults())

	result := newHardFilterMinRAM().RunCapacity(nil, state, []Server{s}, constraints)
	if len(result.Servers) != 1 {
		t.Fatalf("expected capacity mode to keep the server, got %d", len(result.Servers))
	}
	report := CapacityReports(state)[s.UUID]
	if report.MaxRAMMiB == nil || *report.MaxRAMMiB != s.Derived.UnreservedRAM {
		t.Fatalf("expected the recorded max ram to equal the derived unreserved ram, got %v", report.MaxRAMMiB)
	}
}

func TestHardFilterOverprovisionRatiosRejectsConflictingAdvertisement(t *testing.T) {
	s := testServer(65536, 0.15)
	s.OverprovisionMemory = testutil.Ptr(2.0)

	defaults := DefaultDefaults()
	defaults.DisableOverrideOverprovisioning = true // force package/server precedence
	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, testPackage(1024), defaults)

	result := newHardFilterOverprovisionRatios().Run(nil, NewState(), []Server{s}, constraints)
	if len(result.Servers) != 0 {
		t.Fatal("expected the conflicting server to be rejected")
	}
}

func TestHardFilterOverprovisionRatiosAcceptsMatchingAdvertisement(t *testing.T) {
	s := testServer(65536, 0.15)
	s.OverprovisionMemory = testutil.Ptr(1.0)

	defaults := DefaultDefaults()
	defaults.DisableOverrideOverprovisioning = true
	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, testPackage(1024), defaults)

	result := newHardFilterOverprovisionRatios().Run(nil, NewState(), []Server{s}, constraints)
	if len(result.Servers) != 1 {
		t.Fatal("expected the matching server to survive")
	}
}

func TestHardFilterLargeServersDropsTop15Percent(t *testing.T) {
	var servers []Server
	for i := 0; i < 10; i++ {
		s := testServer(float64(100-i)*1024, 0)
		DeriveServer(&s, Ratios{CPU: 1, RAM: 1, Disk: 1})
		servers = append(servers, s)
	}
	defaults := DefaultDefaults()
	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, testPackage(1024), defaults)

	result := newHardFilterLargeServers().Run(nil, NewState(), servers, constraints)
	if len(result.Servers) != 8 {
		t.Fatalf("expected 8 survivors after dropping the top 2 of 10, got %d", len(result.Servers))
	}
	if _, ok := result.Reasons[servers[0].UUID]; !ok {
		t.Fatal("expected the largest server to be dropped")
	}
	if _, ok := result.Reasons[servers[1].UUID]; !ok {
		t.Fatal("expected the second-largest server to be dropped")
	}
}

func TestSoftFilterRecentServersCapsDropAtQuarter(t *testing.T) {
	var servers []Server
	for i := 0; i < 8; i++ {
		servers = append(servers, testServer(65536, 0.15))
	}
	state := NewState()
	rs := recentServersFromState(state)
	for i := 0; i < 8; i++ { // mark every server recent
		rs.record(servers[i].UUID)
	}

	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, testPackage(1024), DefaultDefaults())
	result := newSoftFilterRecentServers().Run(nil, state, servers, constraints)

	wantDropped := 2 // ceil(8*0.25) = 2
	gotDropped := len(servers) - len(result.Servers)
	if gotDropped != wantDropped {
		t.Fatalf("expected %d servers dropped, got %d (survivors=%d)", wantDropped, gotDropped, len(result.Servers))
	}
}
