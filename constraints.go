// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "math"

// Constraints is the merged view of the request handed to every pipeline
// stage, built by ResolveConstraints and consumed throughout the
// hard/soft filters and scorers.
type Constraints struct {
	VM       VMRequest
	Image    ImageManifest
	Package  Package
	Defaults Defaults
	Tickets  []Ticket

	// RequestedTraits is the union of vm.traits, image.traits, and
	// package.traits, with conflicts resolved VM > image > package.
	RequestedTraits Traits

	// MinPlatform is image.requirements.min_platform merged with
	// package.min_platform (package entries fill gaps left by the image).
	MinPlatform map[string]string
	MaxPlatform map[string]string

	// packageRatios/overrideEnabled feed ResolveRatios; overrideActive is
	// set by the override-overprovisioning stage at runtime (state-owned).
	packageRatios  partialRatios
	overrideEnabled bool
}

// partialRatios holds ratios that may or may not have been advertised.
type partialRatios struct {
	CPU  *float64
	RAM  *float64
	Disk *float64
}

// ResolveConstraints merges the VM/image/package/defaults inputs into the
// Constraints record handed to the pipeline.
func ResolveConstraints(vm VMRequest, image ImageManifest, pkg Package, defaults Defaults) Constraints {
	traits := Traits{}
	for k, v := range pkg.Traits {
		traits[k] = v
	}
	for k, v := range image.Traits {
		traits[k] = v
	}
	for k, v := range vm.Traits {
		traits[k] = v
	}

	minPlatform := map[string]string{}
	for k, v := range pkg.MinPlatform {
		minPlatform[k] = v
	}
	for k, v := range image.Requirements.MinPlatform {
		minPlatform[k] = v
	}

	return Constraints{
		VM:              vm,
		Image:           image,
		Package:         pkg,
		Defaults:        defaults,
		RequestedTraits: traits,
		MinPlatform:     minPlatform,
		MaxPlatform:     image.Requirements.MaxPlatform,
		packageRatios: partialRatios{
			CPU:  pkg.OverprovisionCPU,
			RAM:  pkg.OverprovisionMemory,
			Disk: pkg.OverprovisionStorage,
		},
		overrideEnabled: !defaults.DisableOverrideOverprovisioning,
	}
}

// ResolveRatios computes the overprovision ratios in effect for server,
// following this precedence:
//
//  1. If override-overprovisioning is active, defaults always win.
//  2. Else, package-advertised ratios win.
//  3. Else, the server's own advertised ratios win.
//  4. Else, defaults apply.
//
// A missing ratio for memory/storage means "do not overprovision" (1.0);
// a missing ratio for CPU means "unbounded" (+Inf).
func (c Constraints) ResolveRatios(server Server, overrideActive bool) Ratios {
	if overrideActive && c.overrideEnabled {
		return Ratios{
			CPU:  orInf(c.Defaults.OverprovisionRatioCPU),
			RAM:  orOne(c.Defaults.OverprovisionRatioRAM),
			Disk: orOne(c.Defaults.OverprovisionRatioDisk),
		}
	}
	return Ratios{
		CPU:  resolveOne(c.packageRatios.CPU, server.OverprovisionCPU, c.Defaults.OverprovisionRatioCPU, math.Inf(1)),
		RAM:  resolveOne(c.packageRatios.RAM, server.OverprovisionMemory, c.Defaults.OverprovisionRatioRAM, 1.0),
		Disk: resolveOne(c.packageRatios.Disk, server.OverprovisionStorage, c.Defaults.OverprovisionRatioStorageOrDefault(), 1.0),
	}
}

func resolveOne(pkgVal, serverVal *float64, defaultsVal, missingMeans float64) float64 {
	if pkgVal != nil {
		return *pkgVal
	}
	if serverVal != nil {
		return *serverVal
	}
	if defaultsVal != 0 {
		return defaultsVal
	}
	return missingMeans
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1.0
	}
	return v
}

func orInf(v float64) float64 {
	if v == 0 {
		return math.Inf(1)
	}
	return v
}

// OverprovisionRatioStorageOrDefault is a tiny indirection so
// ResolveRatios above reads uniformly; Disk and Storage name the same
// dimension in this engine.
func (d Defaults) OverprovisionRatioStorageOrDefault() float64 { return d.OverprovisionRatioDisk }
