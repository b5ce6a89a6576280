// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"fmt"
	"regexp"
)

// Regular expressions backing the format checks below.
var (
	uuidPattern     = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
	platformPattern = regexp.MustCompile(`^20\d\d[01]\d[0123]\dT[012]\d[012345]\d\d\dZ$`)
	sdcVersionPattern = regexp.MustCompile(`^\d\.\d$`)
)

// epsilon is the tolerance applied to the VM ram-vs-image-requirements
// check and to the overprovision-ratio equality check in
// hard-filter-overprovision-ratios, so values that only differ by
// floating-point round-trip noise aren't treated as a real conflict.
const epsilon = 0.01

// IsValidUUID reports whether s matches the UUID format required throughout
// the data model.
func IsValidUUID(s string) bool { return uuidPattern.MatchString(s) }

// IsValidPlatformTimestamp reports whether s is a syntactically valid ISO
// platform timestamp (YYYYMMDDTHHMMSSZ).
func IsValidPlatformTimestamp(s string) bool { return platformPattern.MatchString(s) }

// IsValidSDCVersion reports whether s matches the SDC version format (\d.\d).
func IsValidSDCVersion(s string) bool { return sdcVersionPattern.MatchString(s) }

// ValidateVM returns a human-readable message naming the offending field,
// or nil if vm is well-formed.
func ValidateVM(vm VMRequest, image *ImageManifest) error {
	if vm.OwnerUUID == "" {
		return fmt.Errorf("%w: vm.owner_uuid is required", ErrInputInvalid)
	}
	if !IsValidUUID(vm.OwnerUUID) {
		return fmt.Errorf("%w: vm.owner_uuid is not a valid uuid", ErrInputInvalid)
	}
	if vm.VMUUID != "" && !IsValidUUID(vm.VMUUID) {
		return fmt.Errorf("%w: vm.vm_uuid is not a valid uuid", ErrInputInvalid)
	}
	if vm.RAM <= 0 {
		return fmt.Errorf("%w: vm.ram must be a positive number", ErrInputInvalid)
	}
	if vm.Quota != nil && *vm.Quota < 0 {
		return fmt.Errorf("%w: vm.quota must not be negative", ErrInputInvalid)
	}
	if vm.CPUCap != nil && *vm.CPUCap < 0 {
		return fmt.Errorf("%w: vm.cpu_cap must not be negative", ErrInputInvalid)
	}
	if vm.Locality != nil {
		if err := validateLocalityShape(*vm.Locality); err != nil {
			return err
		}
	}
	for i, rule := range vm.Affinity {
		if err := validateAffinityRule(rule); err != nil {
			return fmt.Errorf("%w: vm.affinity[%d]: %w", ErrInputInvalid, i, err)
		}
	}
	if _, err := vm.VolumesFrom(); err != nil {
		return fmt.Errorf("%w: %w", ErrInputInvalid, err)
	}
	if image != nil {
		if image.Requirements.MinRAM != nil && vm.RAM < *image.Requirements.MinRAM-epsilon {
			return fmt.Errorf("%w: vm.ram is below image.requirements.min_ram", ErrInputInvalid)
		}
		if image.Requirements.MaxRAM != nil && vm.RAM > *image.Requirements.MaxRAM+epsilon {
			return fmt.Errorf("%w: vm.ram is above image.requirements.max_ram", ErrInputInvalid)
		}
	}
	return nil
}

func validateLocalityShape(l Locality) error {
	for _, u := range l.Near {
		if !IsValidUUID(u) {
			return fmt.Errorf("%w: locality.near contains an invalid uuid", ErrInputInvalid)
		}
	}
	for _, u := range l.Far {
		if !IsValidUUID(u) {
			return fmt.Errorf("%w: locality.far contains an invalid uuid", ErrInputInvalid)
		}
	}
	return nil
}

func validateAffinityRule(rule AffinityRule) error {
	if rule.Key == "" {
		return fmt.Errorf("key is required")
	}
	if rule.Operator != AffinityEquals && rule.Operator != AffinityNotEquals {
		return fmt.Errorf("operator must be == or !=")
	}
	switch rule.ValueType {
	case AffinityValueExact, AffinityValueGlob, AffinityValueRegex:
	default:
		return fmt.Errorf("valueType must be exact, glob, or re")
	}
	if rule.Value == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

func validatePlatformMap(field string, m map[string]string) error {
	for sdcVersion, ts := range m {
		if !IsValidSDCVersion(sdcVersion) {
			return fmt.Errorf("%w: %s key %q is not a valid sdc version", ErrInputInvalid, field, sdcVersion)
		}
		if !IsValidPlatformTimestamp(ts) {
			return fmt.Errorf("%w: %s[%s] is not a valid platform timestamp", ErrInputInvalid, field, sdcVersion)
		}
	}
	return nil
}

// ValidateImage returns an error naming the offending field, or nil.
func ValidateImage(image ImageManifest) error {
	if image.Requirements.MinRAM != nil && image.Requirements.MaxRAM != nil &&
		*image.Requirements.MinRAM > *image.Requirements.MaxRAM {
		return fmt.Errorf("%w: image.requirements.min_ram exceeds max_ram", ErrInputInvalid)
	}
	if err := validatePlatformMap("image.requirements.min_platform", image.Requirements.MinPlatform); err != nil {
		return err
	}
	if err := validatePlatformMap("image.requirements.max_platform", image.Requirements.MaxPlatform); err != nil {
		return err
	}
	return nil
}

// validAllocServerSpreads enumerates the deprecated alloc_server_spread set.
var validAllocServerSpreads = map[AllocServerSpread]bool{
	"": true, SpreadMinRAM: true, SpreadMaxRAM: true, SpreadRandom: true, SpreadMinOwner: true,
}

// ValidatePackage returns an error naming the offending field, or nil.
func ValidatePackage(pkg Package) error {
	if pkg.MaxPhysicalMemory <= 0 {
		return fmt.Errorf("%w: package.max_physical_memory must be a positive number", ErrInputInvalid)
	}
	if !validAllocServerSpreads[pkg.AllocServerSpread] {
		return fmt.Errorf("%w: package.alloc_server_spread is not one of the enumerated values", ErrInputInvalid)
	}
	if err := validatePlatformMap("package.min_platform", pkg.MinPlatform); err != nil {
		return err
	}
	for _, r := range []*float64{pkg.OverprovisionCPU, pkg.OverprovisionMemory, pkg.OverprovisionStorage, pkg.OverprovisionIO, pkg.OverprovisionNetwork} {
		if r != nil && *r <= 0 {
			return fmt.Errorf("%w: overprovision ratios must be positive", ErrInputInvalid)
		}
	}
	return nil
}

// ValidateTicket returns an error naming the offending field, or nil.
func ValidateTicket(t Ticket) error {
	if t.ID == "" {
		return fmt.Errorf("%w: ticket.id is required", ErrInputInvalid)
	}
	if !IsValidUUID(t.ServerUUID) {
		return fmt.Errorf("%w: ticket.server_uuid is not a valid uuid", ErrInputInvalid)
	}
	return nil
}

// ValidateDefaults returns an error naming the offending field, or nil.
func ValidateDefaults(d Defaults) error {
	if d.FilterVMLimit < 0 {
		return fmt.Errorf("%w: defaults.filter_vm_limit must not be negative", ErrInputInvalid)
	}
	if d.OverprovisionRatioCPU < 0 || d.OverprovisionRatioRAM < 0 || d.OverprovisionRatioDisk < 0 {
		return fmt.Errorf("%w: defaults overprovision ratios must not be negative", ErrInputInvalid)
	}
	return nil
}

// ValidateServer is run per-server by hard-filter-invalid-servers: a
// malformed server is dropped and recorded as a rejection reason, it
// never fails the whole allocation.
func ValidateServer(s Server) error {
	if !IsValidUUID(s.UUID) {
		return fmt.Errorf("server.uuid is not a valid uuid")
	}
	if s.MemoryAvailableBytes > s.MemoryTotalBytes {
		return fmt.Errorf("server.memory_available_bytes exceeds memory_total_bytes")
	}
	if s.ReservationRatio < 0 || s.ReservationRatio > 1 {
		return fmt.Errorf("server.reservation_ratio must be in [0,1]")
	}
	for vmUUID, vm := range s.VMs {
		if vm.MaxPhysicalMemory <= 0 {
			return fmt.Errorf("server.vms[%s].max_physical_memory must be positive", vmUUID)
		}
	}
	return nil
}
