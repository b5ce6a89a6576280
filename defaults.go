// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

// Defaults is the record passed to NewAllocator. Unknown keys in the
// JSON/YAML source are ignored by the caller's decoder; invalid types
// fail decoding before this struct is ever constructed, which is how
// input-validation of the defaults record is satisfied.
//
// The Weight* fields are pointers so that a caller explicitly setting a
// weight to zero (disabling that scorer) is distinguishable from not
// setting it at all (use the documented default) through the same
// JSON/YAML partial-override merge that LoadDefaults performs on the
// rest of this record.
type Defaults struct {
	FilterHeadnode                                bool              `json:"filter_headnode" yaml:"filter_headnode"`
	FilterMinResources                            bool              `json:"filter_min_resources" yaml:"filter_min_resources"`
	FilterLargeServers                            bool              `json:"filter_large_servers" yaml:"filter_large_servers"`
	DisableOverrideOverprovisioning               bool              `json:"disable_override_overprovisioning" yaml:"disable_override_overprovisioning"`
	FilterVMLimit                                 int               `json:"filter_vm_limit" yaml:"filter_vm_limit"`
	FilterDockerMinPlatform                       string            `json:"filter_docker_min_platform" yaml:"filter_docker_min_platform"`
	FilterFlexibleDiskMinPlatform                 string            `json:"filter_flexible_disk_min_platform" yaml:"filter_flexible_disk_min_platform"`
	FilterDockerNFSVolumesAutomountMinPlatform    string            `json:"filter_docker_nfs_volumes_automount_min_platform" yaml:"filter_docker_nfs_volumes_automount_min_platform"`
	FilterNonDockerNFSVolumesAutomountMinPlatform string            `json:"filter_non_docker_nfs_volumes_automount_min_platform" yaml:"filter_non_docker_nfs_volumes_automount_min_platform"`
	OverprovisionRatioCPU                         float64           `json:"overprovision_ratio_cpu" yaml:"overprovision_ratio_cpu"`
	OverprovisionRatioRAM                         float64           `json:"overprovision_ratio_ram" yaml:"overprovision_ratio_ram"`
	OverprovisionRatioDisk                        float64           `json:"overprovision_ratio_disk" yaml:"overprovision_ratio_disk"`
	ServerSpread                                  AllocServerSpread `json:"server_spread" yaml:"server_spread"`

	WeightCurrentPlatform *float64 `json:"weight_current_platform,omitempty" yaml:"weight_current_platform,omitempty"`
	WeightNextReboot      *float64 `json:"weight_next_reboot,omitempty" yaml:"weight_next_reboot,omitempty"`
	WeightNumOwnerZones   *float64 `json:"weight_num_owner_zones,omitempty" yaml:"weight_num_owner_zones,omitempty"`
	WeightUnreservedRAM   *float64 `json:"weight_unreserved_ram,omitempty" yaml:"weight_unreserved_ram,omitempty"`
	WeightUnreservedDisk  *float64 `json:"weight_unreserved_disk,omitempty" yaml:"weight_unreserved_disk,omitempty"`
	WeightUniformRandom   *float64 `json:"weight_uniform_random,omitempty" yaml:"weight_uniform_random,omitempty"`
}

func weightPtr(v float64) *float64 { return &v }

// DefaultDefaults returns the weight/ratio defaults this engine ships
// with (filter_vm_limit default 224, weights as documented on each
// scorer). Callers typically start from this and override via JSON/YAML
// decoding on top.
func DefaultDefaults() Defaults {
	return Defaults{
		FilterHeadnode:         true,
		FilterMinResources:     true,
		FilterLargeServers:     true,
		FilterVMLimit:          224,
		OverprovisionRatioCPU:  1.0,
		OverprovisionRatioRAM:  1.0,
		OverprovisionRatioDisk: 1.0,
		WeightCurrentPlatform:  weightPtr(1),
		WeightNextReboot:       weightPtr(0.5),
		WeightNumOwnerZones:    weightPtr(0),
		WeightUnreservedRAM:    weightPtr(2),
		WeightUnreservedDisk:   weightPtr(1),
		WeightUniformRandom:    weightPtr(0.5),
	}
}

// applyServerSpread implements the deprecated alloc_server_spread sugar:
// it biases one scorer's weight so it dominates ranking.
func applyServerSpread(d Defaults, spread AllocServerSpread) Defaults {
	switch spread {
	case SpreadMinRAM:
		d.WeightUnreservedRAM = weightPtr(-1e9)
	case SpreadMaxRAM:
		d.WeightUnreservedRAM = weightPtr(1e9)
	case SpreadRandom:
		d.WeightUniformRandom = weightPtr(1e9)
	case SpreadMinOwner:
		d.WeightNumOwnerZones = weightPtr(1e9)
	}
	return d
}
