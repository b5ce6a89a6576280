// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"encoding/json"
	"fmt"
)

// TraitValue is the dynamic-hash value of a trait requirement or
// advertisement: a scalar bool, a scalar string, or a list of strings.
//
// Grounded on the teacher's ad-hoc extra-spec trait strings
// (internal/scheduling/nova/plugins/filters/filter_has_requested_traits.go),
// generalized into a proper tagged union per the dynamic-hash inputs
// design note.
type TraitValue struct {
	Bool    *bool
	Str     *string
	StrList []string
}

func BoolTrait(b bool) TraitValue       { return TraitValue{Bool: &b} }
func StrTrait(s string) TraitValue      { return TraitValue{Str: &s} }
func ListTrait(l []string) TraitValue   { return TraitValue{StrList: append([]string(nil), l...)} }

func (t TraitValue) IsList() bool { return t.StrList != nil }
func (t TraitValue) IsBool() bool { return t.Bool != nil }
func (t TraitValue) IsStr() bool  { return t.Str != nil }

func (t TraitValue) String() string {
	switch {
	case t.Bool != nil:
		if *t.Bool {
			return "true"
		}
		return "false"
	case t.Str != nil:
		return *t.Str
	case t.StrList != nil:
		return fmt.Sprintf("%v", t.StrList)
	default:
		return ""
	}
}

func (t *TraitValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*t = TraitValue{Bool: &b}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TraitValue{Str: &s}
		return nil
	}
	var l []string
	if err := json.Unmarshal(data, &l); err == nil {
		*t = TraitValue{StrList: l}
		return nil
	}
	return fmt.Errorf("trait value must be bool, string, or string list: %s", string(data))
}

func (t TraitValue) MarshalJSON() ([]byte, error) {
	switch {
	case t.Bool != nil:
		return json.Marshal(*t.Bool)
	case t.Str != nil:
		return json.Marshal(*t.Str)
	case t.StrList != nil:
		return json.Marshal(t.StrList)
	default:
		return json.Marshal(nil)
	}
}

// Traits is a name -> value map, as advertised by a server or required by
// a VM/image/package.
type Traits map[string]TraitValue

// Locality describes near/far placement hints attached directly to a VM
// request (as opposed to the richer Affinity rule list).
type Locality struct {
	Near   []string `json:"near,omitempty"`
	Far    []string `json:"far,omitempty"`
	Strict bool     `json:"strict,omitempty"`
}

// AffinityOperator is the comparison used by an AffinityRule.
type AffinityOperator string

const (
	AffinityEquals    AffinityOperator = "=="
	AffinityNotEquals AffinityOperator = "!="
)

// AffinityValueType selects how AffinityRule.Value is matched against a
// candidate VM's alias/uuid/docker-id or tag value.
type AffinityValueType string

const (
	AffinityValueExact AffinityValueType = "exact"
	AffinityValueGlob  AffinityValueType = "glob"
	AffinityValueRegex AffinityValueType = "re"
)

// AffinityRule is one entry of VMRequest.Affinity.
type AffinityRule struct {
	Key       string            `json:"key"`
	Operator  AffinityOperator  `json:"operator"`
	Value     string            `json:"value"`
	ValueType AffinityValueType `json:"valueType"`
	IsSoft    bool              `json:"isSoft"`
}

// VMRequest is the workload to be placed.
type VMRequest struct {
	VMUUID            string            `json:"vm_uuid,omitempty"`
	OwnerUUID         string            `json:"owner_uuid"`
	RAM               float64           `json:"ram"`
	Quota             *float64          `json:"quota,omitempty"`
	CPUCap            *float64          `json:"cpu_cap,omitempty"`
	Traits            Traits            `json:"traits,omitempty"`
	NicTags           []string          `json:"nic_tags,omitempty"`
	Locality          *Locality         `json:"locality,omitempty"`
	Affinity          []AffinityRule    `json:"affinity,omitempty"`
	InternalMetadata  map[string]string `json:"internal_metadata,omitempty"`
	Brand             string            `json:"brand,omitempty"`
}

// VolumesFrom returns the VM UUIDs named by the docker:volumesfrom
// internal_metadata key, which is JSON-encoded per the spec.
func (v VMRequest) VolumesFrom() ([]string, error) {
	raw, ok := v.InternalMetadata["docker:volumesfrom"]
	if !ok || raw == "" {
		return nil, nil
	}
	var uuids []string
	if err := json.Unmarshal([]byte(raw), &uuids); err != nil {
		return nil, fmt.Errorf("internal_metadata[docker:volumesfrom]: %w", err)
	}
	return uuids, nil
}

// ForceDesignationFailure reports whether the VM requests a forced
// allocation failure, used for testing by hard-filter-force-failure.
func (v VMRequest) ForceDesignationFailure() bool {
	_, ok := v.InternalMetadata["force_designation_failure"]
	return ok
}

// ImageRequirements constrains the VM ram and the server platform version.
type ImageRequirements struct {
	MinRAM      *float64 `json:"min_ram,omitempty"`
	MaxRAM      *float64 `json:"max_ram,omitempty"`
	MinPlatform map[string]string `json:"min_platform,omitempty"`
	MaxPlatform map[string]string `json:"max_platform,omitempty"`
}

// ImageManifest describes the VM's boot image.
type ImageManifest struct {
	ImageSize    float64           `json:"image_size,omitempty"`
	Traits       Traits            `json:"traits,omitempty"`
	Requirements ImageRequirements `json:"requirements,omitempty"`
}

// AllocServerSpread is the deprecated package-level scorer shorthand,
// modeled as scoring-weight sugar.
type AllocServerSpread string

const (
	SpreadMinRAM   AllocServerSpread = "min-ram"
	SpreadMaxRAM   AllocServerSpread = "max-ram"
	SpreadRandom   AllocServerSpread = "random"
	SpreadMinOwner AllocServerSpread = "min-owner"
)

// Package is the VM's compute package (flavor).
type Package struct {
	MaxPhysicalMemory  float64           `json:"max_physical_memory"`
	Quota              float64           `json:"quota,omitempty"`
	CPUCap             float64           `json:"cpu_cap,omitempty"`
	Traits             Traits            `json:"traits,omitempty"`
	MinPlatform        map[string]string `json:"min_platform,omitempty"`
	AllocServerSpread  AllocServerSpread `json:"alloc_server_spread,omitempty"`
	OverprovisionCPU   *float64          `json:"overprovision_cpu,omitempty"`
	OverprovisionMemory *float64         `json:"overprovision_memory,omitempty"`
	OverprovisionStorage *float64        `json:"overprovision_storage,omitempty"`
	OverprovisionIO    *float64          `json:"overprovision_io,omitempty"`
	OverprovisionNetwork *float64        `json:"overprovision_network,omitempty"`
}

// ServerVM is one entry of Server.VMs.
type ServerVM struct {
	OwnerUUID         string  `json:"owner_uuid"`
	Brand             string  `json:"brand"`
	State             string  `json:"state"`
	CPUCap            float64 `json:"cpu_cap,omitempty"`
	Quota             float64 `json:"quota,omitempty"`
	MaxPhysicalMemory float64 `json:"max_physical_memory"`
	LastModified      string  `json:"last_modified,omitempty"`
	Alias             string  `json:"alias,omitempty"`
	DockerID          string  `json:"docker_id,omitempty"`
	Tags              map[string]TraitValue `json:"tags,omitempty"`
}

// NetworkInterface is one entry of SysInfo's "Network Interfaces" map.
type NetworkInterface struct {
	NICNames   []string `json:"NIC Names"`
	LinkStatus string   `json:"Link Status"`
}

// SysInfo is the subset of a server's sysinfo hash the allocator consumes.
type SysInfo struct {
	CPUOnlineCount    int                         `json:"CPU Online Count"`
	LiveImage         string                      `json:"Live Image"`
	NetworkInterfaces map[string]NetworkInterface `json:"Network Interfaces,omitempty"`
	BootTime          string                      `json:"Boot Time,omitempty"`
	NextReboot        string                      `json:"Next Reboot,omitempty"`
}

// Derived holds the per-server fields computed by Server Derivation (§4.2).
// Zero value means derivation has not run yet.
type Derived struct {
	UnreservedRAM  float64
	UnreservedCPU  float64
	UnreservedDisk float64
	OK             bool
}

// Server is one compute node candidate.
type Server struct {
	UUID                       string             `json:"uuid"`
	MemoryTotalBytes           float64            `json:"memory_total_bytes"`
	MemoryAvailableBytes       float64            `json:"memory_available_bytes"`
	DiskPoolSizeBytes          float64            `json:"disk_pool_size_bytes"`
	DiskInstalledImagesUsedBytes float64          `json:"disk_installed_images_used_bytes"`
	DiskZoneQuotaBytes         float64            `json:"disk_zone_quota_bytes"`
	DiskKVMQuotaBytes          float64            `json:"disk_kvm_quota_bytes"`
	DiskCoresQuotaUsedBytes    float64            `json:"disk_cores_quota_used_bytes"`
	ReservationRatio           float64            `json:"reservation_ratio"`
	Reserved                   bool               `json:"reserved"`
	Setup                      bool               `json:"setup"`
	Running                    bool               `json:"running"`
	Headnode                   bool               `json:"headnode"`
	Reservoir                  bool               `json:"reservoir"`
	VirtualServer              bool               `json:"virtual_server"`
	SysInfo                    SysInfo            `json:"sysinfo"`
	Traits                     Traits             `json:"traits,omitempty"`
	OverprovisionCPU           *float64           `json:"overprovision_ratio_cpu,omitempty"`
	OverprovisionMemory        *float64           `json:"overprovision_ratio_memory,omitempty"`
	OverprovisionStorage       *float64           `json:"overprovision_ratio_storage,omitempty"`
	VMs                        map[string]ServerVM `json:"vms,omitempty"`

	Derived Derived `json:"-"`
}

// TicketStatus mirrors the lifecycle of an in-flight provision ticket.
type TicketStatus string

const (
	TicketActive  TicketStatus = "active"
	TicketFinished TicketStatus = "finished"
)

// Ticket represents an in-flight provision the allocator must account for.
type Ticket struct {
	ID         string       `json:"id"`
	ServerUUID string       `json:"server_uuid"`
	Scope      string       `json:"scope"`
	Action     string       `json:"action"`
	Status     TicketStatus `json:"status"`
	// VMUUID is the VM the ticket provisions, used by calculate-recent-vms
	// to pre-charge server.vms before the VM surfaces in inventory.
	VMUUID     string       `json:"vm_uuid,omitempty"`
	RAM        float64      `json:"ram,omitempty"`
	CPUCap     float64      `json:"cpu_cap,omitempty"`
	OwnerUUID  string       `json:"owner_uuid,omitempty"`
}
