// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "math"

// Ratios are the overprovision ratios in effect for one allocation call,
// resolved by the Overprovision Policy.
type Ratios struct {
	CPU     float64 // +Inf means "unbounded" (missing ratio for CPU).
	RAM     float64 // 1.0 means "do not overprovision" (missing ratio for RAM).
	Disk    float64 // 1.0 means "do not overprovision" (missing ratio for disk).
}

const mib = 1 << 20

// DeriveServer computes the unreserved RAM/CPU/disk fields for s under the
// given ratios and stores them in s.Derived. It never fails and always
// sets Derived.OK = true: no input (malformed sysinfo included) is
// treated as underivable, and no stage reads Derived.OK to demote a
// server.
func DeriveServer(s *Server, ratios Ratios) {
	totalVMMemory := 0.0
	totalVMCPU := 0.0
	for _, vm := range s.VMs {
		totalVMMemory += vm.MaxPhysicalMemory
		totalVMCPU += vm.CPUCap
	}

	unreservedRAM := (s.MemoryTotalBytes*(1-s.ReservationRatio))/mib*ratios.RAM - totalVMMemory
	s.Derived.UnreservedRAM = clampNonNegative(unreservedRAM)

	var unreservedCPU float64
	if math.IsInf(ratios.CPU, 1) {
		unreservedCPU = math.Inf(1)
	} else {
		unreservedCPU = float64(s.SysInfo.CPUOnlineCount)*100*ratios.CPU - totalVMCPU
		unreservedCPU = clampNonNegative(unreservedCPU)
	}
	s.Derived.UnreservedCPU = unreservedCPU

	s.Derived.UnreservedDisk = clampNonNegative(deriveUnreservedDiskMiB(*s, ratios.Disk))

	s.Derived.OK = true
}

// deriveUnreservedDiskMiB implements the disk formula:
//
//	pool_size − images_used − kvm_quota − cores_quota
//	  − (zone_quota / overprovision_storage) when zone_quota > already-consumed
//	  − zone_quota                           otherwise
//
// "already-consumed" is read as disk_cores_quota_used_bytes: the zone
// quota's free headroom (beyond what cores have already consumed) is the
// part eligible for overprovisioning; once a zone has no headroom left,
// its quota is charged at nominal size like a KVM zvol.
func deriveUnreservedDiskMiB(s Server, overprovisionStorage float64) float64 {
	alreadyConsumed := s.DiskCoresQuotaUsedBytes
	var chargedZone float64
	if s.DiskZoneQuotaBytes > alreadyConsumed {
		chargedZone = s.DiskZoneQuotaBytes / overprovisionStorage
	} else {
		chargedZone = s.DiskZoneQuotaBytes
	}
	bytes := s.DiskPoolSizeBytes -
		s.DiskInstalledImagesUsedBytes -
		s.DiskKVMQuotaBytes -
		s.DiskCoresQuotaUsedBytes -
		chargedZone
	return bytes / mib
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
