// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"math"
	"testing"

	"github.com/cobaltcore-dev/designation/internal/testutil"
)

// ResolveRatios precedence: package > server > defaults, unless
// override-overprovisioning is active, in which case defaults win
// outright.
func TestResolveRatiosPrecedence(t *testing.T) {
	pkgRatio, serverRatio := testutil.Ptr(2.0), testutil.Ptr(3.0)
	defaults := DefaultDefaults()
	defaults.OverprovisionRatioRAM = 4.0

	pkg := Package{MaxPhysicalMemory: 1024, OverprovisionMemory: pkgRatio}
	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, pkg, defaults)
	constraints.overrideEnabled = false

	server := Server{OverprovisionMemory: serverRatio}
	if got := constraints.ResolveRatios(server, false).RAM; got != *pkgRatio {
		t.Fatalf("expected package ratio to win, got %f", got)
	}

	pkgOnlyUnset := Package{MaxPhysicalMemory: 1024}
	constraints2 := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, pkgOnlyUnset, defaults)
	constraints2.overrideEnabled = false
	if got := constraints2.ResolveRatios(server, false).RAM; got != *serverRatio {
		t.Fatalf("expected server ratio to win when package is silent, got %f", got)
	}

	noAdvertisement := Server{}
	if got := constraints2.ResolveRatios(noAdvertisement, false).RAM; got != defaults.OverprovisionRatioRAM {
		t.Fatalf("expected defaults ratio to win when nothing else is advertised, got %f", got)
	}
}

func TestResolveRatiosOverrideForcesDefaults(t *testing.T) {
	pkgRatio := testutil.Ptr(2.0)
	defaults := DefaultDefaults()
	defaults.OverprovisionRatioRAM = 9.0

	pkg := Package{MaxPhysicalMemory: 1024, OverprovisionMemory: pkgRatio}
	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, pkg, defaults)

	got := constraints.ResolveRatios(Server{}, true).RAM
	if got != 9.0 {
		t.Fatalf("expected override to force the defaults ratio 9.0, got %f", got)
	}
}

func TestResolveRatiosMissingCPUIsUnbounded(t *testing.T) {
	constraints := ResolveConstraints(testVM(newUUID(), 1024), ImageManifest{}, testPackage(1024), Defaults{})
	constraints.overrideEnabled = false
	ratios := constraints.ResolveRatios(Server{}, false)
	if !math.IsInf(ratios.CPU, 1) {
		t.Fatalf("expected unbounded cpu ratio when nothing advertises one, got %f", ratios.CPU)
	}
}
