// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"fmt"
	"math"
	"sort"
)

// Stage name constants for every built-in hard filter.
const (
	stageHardFilterSetup               = "hard-filter-setup"
	stageHardFilterRunning             = "hard-filter-running"
	stageHardFilterReserved            = "hard-filter-reserved"
	stageHardFilterReservoir           = "hard-filter-reservoir"
	stageHardFilterHeadnode            = "hard-filter-headnode"
	stageHardFilterVirtualServers      = "hard-filter-virtual-servers"
	stageHardFilterInvalidServers      = "hard-filter-invalid-servers"
	stageHardFilterMinRAM              = "hard-filter-min-ram"
	stageHardFilterMinCPU              = "hard-filter-min-cpu"
	stageHardFilterMinDisk             = "hard-filter-min-disk"
	stageHardFilterMinFreeDisk         = "hard-filter-min-free-disk"
	stageHardFilterOverprovisionRatios = "hard-filter-overprovision-ratios"
	stageHardFilterPlatformVersions    = "hard-filter-platform-versions"
	stageHardFilterFeatureMinPlatform  = "hard-filter-feature-min-platform"
	stageHardFilterTraits              = "hard-filter-traits"
	stageHardFilterVLANs               = "hard-filter-vlans"
	stageHardFilterVMCount             = "hard-filter-vm-count"
	stageHardFilterLargeServers        = "hard-filter-large-servers"
	stageHardFilterRecentServers       = "hard-filter-recent-servers"
	stageHardFilterForceFailure        = "hard-filter-force-failure"
	stageHardFilterLocalityHints       = "hard-filter-locality-hints"
	stageHardFilterVolumesFrom         = "hard-filter-volumes-from"
)

// boolPredicateFilter implements the six simple "server must/must not be
// in this state" hard filters: setup, running, reserved, reservoir,
// headnode, virtual-servers. None of them depend on the size of the
// request, so none affect capacity mode.
type boolPredicateFilter struct {
	BaseAlgorithm
	keep   func(Server) bool
	reason string
}

func (f boolPredicateFilter) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	return filterServers(servers, f.keep, func(Server) string { return f.reason })
}

func newHardFilterSetup() Algorithm {
	return boolPredicateFilter{
		BaseAlgorithm: BaseAlgorithm{StageName: stageHardFilterSetup, StageKind: KindHardFilter},
		keep:          func(s Server) bool { return s.Setup },
		reason:        "server is not set up",
	}
}

func newHardFilterRunning() Algorithm {
	return boolPredicateFilter{
		BaseAlgorithm: BaseAlgorithm{StageName: stageHardFilterRunning, StageKind: KindHardFilter},
		keep:          func(s Server) bool { return s.Running },
		reason:        "server is not running",
	}
}

func newHardFilterReserved() Algorithm {
	return boolPredicateFilter{
		BaseAlgorithm: BaseAlgorithm{StageName: stageHardFilterReserved, StageKind: KindHardFilter},
		keep:          func(s Server) bool { return !s.Reserved },
		reason:        "server is reserved",
	}
}

func newHardFilterReservoir() Algorithm {
	return boolPredicateFilter{
		BaseAlgorithm: BaseAlgorithm{StageName: stageHardFilterReservoir, StageKind: KindHardFilter},
		keep:          func(s Server) bool { return !s.Reservoir },
		reason:        "server is a reservoir spare",
	}
}

func newHardFilterHeadnode() Algorithm {
	return boolPredicateFilter{
		BaseAlgorithm: BaseAlgorithm{StageName: stageHardFilterHeadnode, StageKind: KindHardFilter},
		keep:          func(s Server) bool { return !s.Headnode },
		reason:        "server is a headnode",
	}
}

func newHardFilterVirtualServers() Algorithm {
	return boolPredicateFilter{
		BaseAlgorithm: BaseAlgorithm{StageName: stageHardFilterVirtualServers, StageKind: KindHardFilter},
		keep:          func(s Server) bool { return !s.VirtualServer },
		reason:        "server is virtual",
	}
}

// hardFilterInvalidServers runs per-server Validation: a malformed server
// is dropped and recorded, not treated as a fatal input-validation
// failure the way a malformed VM/image/package/ticket is.
type hardFilterInvalidServers struct{ BaseAlgorithm }

func newHardFilterInvalidServers() Algorithm {
	return hardFilterInvalidServers{BaseAlgorithm{StageName: stageHardFilterInvalidServers, StageKind: KindHardFilter}}
}

func (f hardFilterInvalidServers) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	kept := make([]Server, 0, len(servers))
	reasons := map[string]string{}
	for _, s := range servers {
		if err := ValidateServer(s); err != nil {
			reasons[s.UUID] = err.Error()
			continue
		}
		kept = append(kept, s)
	}
	return StepResult{Servers: kept, Reasons: reasons}
}

// hardFilterMinRAM drops servers without enough unreserved RAM.
type hardFilterMinRAM struct{ BaseAlgorithm }

func newHardFilterMinRAM() Algorithm {
	return hardFilterMinRAM{BaseAlgorithm{StageName: stageHardFilterMinRAM, StageKind: KindHardFilter, CapacityOK: true}}
}

func (f hardFilterMinRAM) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	needed := constraints.VM.RAM
	return filterServers(servers,
		func(s Server) bool { return s.Derived.UnreservedRAM >= needed },
		func(s Server) string {
			return fmt.Sprintf("insufficient RAM: needed %.0f MiB, server has %.0f MiB unreserved", needed, s.Derived.UnreservedRAM)
		})
}

func (f hardFilterMinRAM) RunCapacity(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	for _, s := range servers {
		recordMaxRAM(state, s.UUID, s.Derived.UnreservedRAM)
	}
	return StepResult{Servers: servers}
}

// hardFilterMinCPU drops servers without enough unreserved CPU.
type hardFilterMinCPU struct{ BaseAlgorithm }

func newHardFilterMinCPU() Algorithm {
	return hardFilterMinCPU{BaseAlgorithm{StageName: stageHardFilterMinCPU, StageKind: KindHardFilter, CapacityOK: true}}
}

func (f hardFilterMinCPU) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	needed := requestedCPUCap(constraints)
	if needed <= 0 {
		return StepResult{Servers: servers}
	}
	return filterServers(servers,
		func(s Server) bool { return s.Derived.UnreservedCPU >= needed },
		func(s Server) string {
			return fmt.Sprintf("insufficient CPU: needed %.0f%%, server has %.0f%% unreserved", needed, s.Derived.UnreservedCPU)
		})
}

func (f hardFilterMinCPU) RunCapacity(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	for _, s := range servers {
		recordMaxCPU(state, s.UUID, s.Derived.UnreservedCPU)
	}
	return StepResult{Servers: servers}
}

// hardFilterMinDisk drops servers without enough unreserved disk.
type hardFilterMinDisk struct{ BaseAlgorithm }

func newHardFilterMinDisk() Algorithm {
	return hardFilterMinDisk{BaseAlgorithm{StageName: stageHardFilterMinDisk, StageKind: KindHardFilter, CapacityOK: true}}
}

func (f hardFilterMinDisk) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	needed := requestedDiskMiB(constraints)
	if needed <= 0 {
		return StepResult{Servers: servers}
	}
	return filterServers(servers,
		func(s Server) bool { return s.Derived.UnreservedDisk >= needed },
		func(s Server) string {
			return fmt.Sprintf("insufficient disk: needed %.0f MiB, server has %.0f MiB unreserved", needed, s.Derived.UnreservedDisk)
		})
}

func (f hardFilterMinDisk) RunCapacity(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	for _, s := range servers {
		recordMaxDisk(state, s.UUID, s.Derived.UnreservedDisk)
	}
	return StepResult{Servers: servers}
}

// hardFilterMinFreeDisk checks raw pool free space, independent of
// overprovisioning.
type hardFilterMinFreeDisk struct{ BaseAlgorithm }

func newHardFilterMinFreeDisk() Algorithm {
	return hardFilterMinFreeDisk{BaseAlgorithm{StageName: stageHardFilterMinFreeDisk, StageKind: KindHardFilter, CapacityOK: true}}
}

func rawFreeDiskMiB(s Server) float64 {
	bytesFree := s.DiskPoolSizeBytes - s.DiskInstalledImagesUsedBytes - s.DiskKVMQuotaBytes - s.DiskCoresQuotaUsedBytes - s.DiskZoneQuotaBytes
	return clampNonNegative(bytesFree / mib)
}

func (f hardFilterMinFreeDisk) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	needed := requestedDiskMiB(constraints)
	if needed <= 0 {
		return StepResult{Servers: servers}
	}
	return filterServers(servers,
		func(s Server) bool { return rawFreeDiskMiB(s) >= needed },
		func(s Server) string {
			return fmt.Sprintf("insufficient free disk: needed %.0f MiB, pool has %.0f MiB free", needed, rawFreeDiskMiB(s))
		})
}

func (f hardFilterMinFreeDisk) RunCapacity(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	for _, s := range servers {
		recordMaxDisk(state, s.UUID, rawFreeDiskMiB(s))
	}
	return StepResult{Servers: servers}
}

// hardFilterOverprovisionRatios rejects servers whose advertised ratio
// conflicts with the ratio the engine would otherwise apply. Equality is
// compared with the package epsilon tolerance (see validate.go), not
// bit-exactly, since these ratios usually arrive through JSON/YAML
// round-trips.
type hardFilterOverprovisionRatios struct{ BaseAlgorithm }

func newHardFilterOverprovisionRatios() Algorithm {
	return hardFilterOverprovisionRatios{BaseAlgorithm{StageName: stageHardFilterOverprovisionRatios, StageKind: KindHardFilter}}
}

func (f hardFilterOverprovisionRatios) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	var expectedCPU, expectedRAM, expectedDisk float64
	if overrideActive(state) && constraints.overrideEnabled {
		expectedCPU = orInf(constraints.Defaults.OverprovisionRatioCPU)
		expectedRAM = orOne(constraints.Defaults.OverprovisionRatioRAM)
		expectedDisk = orOne(constraints.Defaults.OverprovisionRatioStorageOrDefault())
	} else {
		expectedCPU = resolveOne(constraints.packageRatios.CPU, nil, constraints.Defaults.OverprovisionRatioCPU, math.Inf(1))
		expectedRAM = resolveOne(constraints.packageRatios.RAM, nil, constraints.Defaults.OverprovisionRatioRAM, 1.0)
		expectedDisk = resolveOne(constraints.packageRatios.Disk, nil, constraints.Defaults.OverprovisionRatioStorageOrDefault(), 1.0)
	}

	return filterServers(servers, func(s Server) bool {
		return !ratioConflicts(s.OverprovisionCPU, expectedCPU) &&
			!ratioConflicts(s.OverprovisionMemory, expectedRAM) &&
			!ratioConflicts(s.OverprovisionStorage, expectedDisk)
	}, func(Server) string {
		return "advertised overprovision ratio conflicts with requested ratio"
	})
}

func ratioConflicts(serverVal *float64, expected float64) bool {
	if serverVal == nil {
		return false
	}
	if math.IsInf(expected, 1) {
		return !math.IsInf(*serverVal, 1)
	}
	return math.Abs(*serverVal-expected) > epsilon
}

// hardFilterPlatformVersions checks server.sysinfo["Live Image"] against
// constraints.MinPlatform/MaxPlatform.
type hardFilterPlatformVersions struct{ BaseAlgorithm }

func newHardFilterPlatformVersions() Algorithm {
	return hardFilterPlatformVersions{BaseAlgorithm{StageName: stageHardFilterPlatformVersions, StageKind: KindHardFilter}}
}

func (f hardFilterPlatformVersions) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	kept := make([]Server, 0, len(servers))
	reasons := map[string]string{}
	for _, s := range servers {
		if ok, v := PlatformSatisfiesMin(s.SysInfo.LiveImage, constraints.MinPlatform); !ok {
			reasons[s.UUID] = fmt.Sprintf("platform too old for SDC version %s", v)
			continue
		}
		if ok, v := PlatformSatisfiesMax(s.SysInfo.LiveImage, constraints.MaxPlatform); !ok {
			reasons[s.UUID] = fmt.Sprintf("platform too new for SDC version %s", v)
			continue
		}
		kept = append(kept, s)
	}
	return StepResult{Servers: kept, Reasons: reasons}
}

// hardFilterFeatureMinPlatform applies the conditional minimum-platform
// requirements that only kick in for specific VM features: Docker brand,
// flexible-disk sizing, and NFS-volume automounts (docker and non-docker
// variants are tracked separately). Each is keyed on a Defaults entry
// that, when empty, disables that particular check.
//
// The docker trigger is vm.brand ("docker" or "lx"); the flexible-disk
// and NFS-volume triggers are internal_metadata flags, the same
// convention docker:volumesfrom uses elsewhere in this file.
type hardFilterFeatureMinPlatform struct{ BaseAlgorithm }

func newHardFilterFeatureMinPlatform() Algorithm {
	return hardFilterFeatureMinPlatform{BaseAlgorithm{StageName: stageHardFilterFeatureMinPlatform, StageKind: KindHardFilter}}
}

func (f hardFilterFeatureMinPlatform) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	vm := constraints.VM
	_, hasFlexDisk := vm.InternalMetadata["flexible_disk"]
	_, hasDockerNFS := vm.InternalMetadata["docker:nfsvolumes"]
	_, hasPlainNFS := vm.InternalMetadata["nfsvolumes"]
	isDocker := vm.Brand == "docker" || vm.Brand == "lx"

	required := map[string]string{}
	if isDocker && constraints.Defaults.FilterDockerMinPlatform != "" {
		required["docker"] = constraints.Defaults.FilterDockerMinPlatform
	}
	if hasFlexDisk && constraints.Defaults.FilterFlexibleDiskMinPlatform != "" {
		required["flexible-disk"] = constraints.Defaults.FilterFlexibleDiskMinPlatform
	}
	if isDocker && hasDockerNFS && constraints.Defaults.FilterDockerNFSVolumesAutomountMinPlatform != "" {
		required["docker-nfs-volumes-automount"] = constraints.Defaults.FilterDockerNFSVolumesAutomountMinPlatform
	}
	if !isDocker && hasPlainNFS && constraints.Defaults.FilterNonDockerNFSVolumesAutomountMinPlatform != "" {
		required["non-docker-nfs-volumes-automount"] = constraints.Defaults.FilterNonDockerNFSVolumesAutomountMinPlatform
	}
	if len(required) == 0 {
		return StepResult{Servers: servers}
	}

	kept := make([]Server, 0, len(servers))
	reasons := map[string]string{}
	for _, s := range servers {
		failed := ""
		for feature, minPlatform := range required {
			if !PlatformAtLeast(s.SysInfo.LiveImage, minPlatform) {
				failed = feature
				break
			}
		}
		if failed != "" {
			reasons[s.UUID] = fmt.Sprintf("platform too old for feature %q", failed)
			continue
		}
		kept = append(kept, s)
	}
	return StepResult{Servers: kept, Reasons: reasons}
}

// hardFilterTraits applies the union of VM/image/package trait
// requirements.
type hardFilterTraits struct{ BaseAlgorithm }

func newHardFilterTraits() Algorithm {
	return hardFilterTraits{BaseAlgorithm{StageName: stageHardFilterTraits, StageKind: KindHardFilter}}
}

func (f hardFilterTraits) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	return filterServers(servers,
		func(s Server) bool { return TraitsSatisfied(constraints.RequestedTraits, s.Traits) },
		func(s Server) string {
			return fmt.Sprintf("missing required traits: %v", MissingTraits(constraints.RequestedTraits, s.Traits))
		})
}

// hardFilterVLANs requires every vm.nic_tags entry to be present on the
// server, directly or via an up interface's NIC Names.
type hardFilterVLANs struct{ BaseAlgorithm }

func newHardFilterVLANs() Algorithm {
	return hardFilterVLANs{BaseAlgorithm{StageName: stageHardFilterVLANs, StageKind: KindHardFilter}}
}

func (f hardFilterVLANs) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	tags := constraints.VM.NicTags
	if len(tags) == 0 {
		return StepResult{Servers: servers}
	}
	return filterServers(servers,
		func(s Server) bool { return serverHasAllNicTags(s, tags) },
		func(Server) string { return "missing required nic tag" })
}

func serverHasAllNicTags(s Server, tags []string) bool {
	for _, tag := range tags {
		if !serverHasNicTag(s, tag) {
			return false
		}
	}
	return true
}

func serverHasNicTag(s Server, tag string) bool {
	for name, iface := range s.SysInfo.NetworkInterfaces {
		if iface.LinkStatus != "up" {
			continue
		}
		if name == tag {
			return true
		}
		for _, nicName := range iface.NICNames {
			if nicName == tag {
				return true
			}
		}
	}
	return false
}

// hardFilterVMCount drops servers already hosting too many VMs (default
// limit 224).
type hardFilterVMCount struct{ BaseAlgorithm }

func newHardFilterVMCount() Algorithm {
	return hardFilterVMCount{BaseAlgorithm{StageName: stageHardFilterVMCount, StageKind: KindHardFilter}}
}

func (f hardFilterVMCount) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	limit := constraints.Defaults.FilterVMLimit
	if limit <= 0 {
		limit = 224
	}
	return filterServers(servers,
		func(s Server) bool { return len(s.VMs) < limit },
		func(s Server) string { return fmt.Sprintf("server hosts %d VMs, at or above limit %d", len(s.VMs), limit) })
}

// hardFilterLargeServers removes the top 15% of survivors by unreserved
// RAM, after every other hard filter has run, so the biggest servers stay
// available for workloads that actually need them. No-op with fewer than
// two survivors.
type hardFilterLargeServers struct{ BaseAlgorithm }

func newHardFilterLargeServers() Algorithm {
	return hardFilterLargeServers{BaseAlgorithm{StageName: stageHardFilterLargeServers, StageKind: KindHardFilter}}
}

func (f hardFilterLargeServers) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	if !constraints.Defaults.FilterLargeServers || len(servers) < 2 {
		return StepResult{Servers: servers}
	}
	ordered := append([]Server(nil), servers...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Derived.UnreservedRAM != ordered[j].Derived.UnreservedRAM {
			return ordered[i].Derived.UnreservedRAM > ordered[j].Derived.UnreservedRAM
		}
		return ordered[i].UUID < ordered[j].UUID
	})
	drop := int(math.Ceil(float64(len(ordered)) * 0.15))
	if drop >= len(ordered) {
		drop = len(ordered) - 1
	}
	dropped := make(map[string]struct{}, drop)
	for i := 0; i < drop; i++ {
		dropped[ordered[i].UUID] = struct{}{}
	}
	kept := make([]Server, 0, len(servers)-drop)
	reasons := map[string]string{}
	for _, s := range servers {
		if _, isDropped := dropped[s.UUID]; isDropped {
			reasons[s.UUID] = "server is among the largest by unreserved RAM"
			continue
		}
		kept = append(kept, s)
	}
	return StepResult{Servers: kept, Reasons: reasons}
}

// hardFilterRecentServers may drop every currently-recent server; the
// soft variant in filters_soft.go caps the drop at 25%.
type hardFilterRecentServers struct{ BaseAlgorithm }

func newHardFilterRecentServers() Algorithm {
	return hardFilterRecentServers{BaseAlgorithm{StageName: stageHardFilterRecentServers, StageKind: KindHardFilter}}
}

func (f hardFilterRecentServers) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	rs := recentServersFromState(state)
	rs.purge()
	return filterServers(servers,
		func(s Server) bool { return !rs.isRecent(s.UUID) },
		func(Server) string { return "server was recently used" })
}

// Post records the Facade's final selection into the shared recentServers
// memory, so later calls know this server was just used.
func (f hardFilterRecentServers) Post(log Logger, state *State, chosen *Server) {
	if chosen != nil {
		recentServersFromState(state).record(chosen.UUID)
	}
}

// hardFilterForceFailure drops every server when
// vm.internal_metadata.force_designation_failure is set, for testing.
type hardFilterForceFailure struct{ BaseAlgorithm }

func newHardFilterForceFailure() Algorithm {
	return hardFilterForceFailure{BaseAlgorithm{StageName: stageHardFilterForceFailure, StageKind: KindHardFilter, CapacityOK: true}}
}

func (f hardFilterForceFailure) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	if !constraints.VM.ForceDesignationFailure() {
		return StepResult{Servers: servers}
	}
	reasons := map[string]string{}
	for _, s := range servers {
		reasons[s.UUID] = "forced designation failure requested"
	}
	return StepResult{Reasons: reasons}
}

func (f hardFilterForceFailure) RunCapacity(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	if constraints.VM.ForceDesignationFailure() {
		for _, s := range servers {
			recordMaxRAM(state, s.UUID, 0)
			recordMaxCPU(state, s.UUID, 0)
			recordMaxDisk(state, s.UUID, 0)
		}
	}
	return StepResult{Servers: servers}
}

// hardFilterLocalityHints enforces strict locality: any server hosting a
// "far" VM is removed; if at least one "near" VM was named, a server
// hosting none of them is removed too.
type hardFilterLocalityHints struct{ BaseAlgorithm }

func newHardFilterLocalityHints() Algorithm {
	return hardFilterLocalityHints{BaseAlgorithm{StageName: stageHardFilterLocalityHints, StageKind: KindHardFilter}}
}

func (f hardFilterLocalityHints) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	hints := localityHintsFromState(state, constraints.VM, servers)
	kept := make([]Server, 0, len(servers))
	reasons := map[string]string{}
	for _, s := range servers {
		if _, far := hints.StrictFar[s.UUID]; far {
			reasons[s.UUID] = "server hosts a far-locality VM"
			continue
		}
		kept = append(kept, s)
	}
	requireNear := len(hints.StrictNear) > 0
	if l := constraints.VM.Locality; l != nil && l.Strict && len(l.Near) > 0 {
		requireNear = true
	}
	for _, rule := range constraints.VM.Affinity {
		if !rule.IsSoft && rule.Operator != AffinityNotEquals {
			requireNear = true
		}
	}
	if requireNear {
		var filtered []Server
		for _, s := range kept {
			if _, near := hints.StrictNear[s.UUID]; near {
				filtered = append(filtered, s)
			} else {
				reasons[s.UUID] = "server does not host a required near-locality VM"
			}
		}
		kept = filtered
	}
	return StepResult{Servers: kept, Reasons: reasons}
}

// hardFilterVolumesFrom requires the chosen server to already host every
// VM named by vm.internal_metadata["docker:volumesfrom"].
type hardFilterVolumesFrom struct{ BaseAlgorithm }

func newHardFilterVolumesFrom() Algorithm {
	return hardFilterVolumesFrom{BaseAlgorithm{StageName: stageHardFilterVolumesFrom, StageKind: KindHardFilter}}
}

func (f hardFilterVolumesFrom) Run(log Logger, state *State, servers []Server, constraints Constraints) StepResult {
	volumesFrom, err := constraints.VM.VolumesFrom()
	if err != nil || len(volumesFrom) == 0 {
		return StepResult{Servers: servers}
	}
	return filterServers(servers,
		func(s Server) bool { return serverHostsAll(s, volumesFrom) },
		func(Server) string { return "server does not host every docker:volumesfrom VM" })
}

func serverHostsAll(s Server, vmUUIDs []string) bool {
	for _, uuid := range vmUUIDs {
		if _, ok := s.VMs[uuid]; !ok {
			return false
		}
	}
	return true
}
