// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"path/filepath"
	"regexp"
	"strings"
)

// LocalityHints is the resolved near/far server-UUID sets produced by the
// locality/affinity resolver's output, split by strict (hard) and
// non-strict (soft) origin so the hard and soft locality filters can each
// consume only the rules meant for them.
type LocalityHints struct {
	// Near/Far from vm.locality when locality.strict is set, plus every
	// hard (isSoft=false) affinity rule.
	StrictNear map[string]struct{}
	StrictFar  map[string]struct{}
	// Near/Far from vm.locality when locality.strict is not set, plus
	// every soft (isSoft=true) affinity rule.
	SoftNear map[string]struct{}
	SoftFar  map[string]struct{}
}

func newLocalityHints() LocalityHints {
	return LocalityHints{
		StrictNear: map[string]struct{}{},
		StrictFar:  map[string]struct{}{},
		SoftNear:   map[string]struct{}{},
		SoftFar:    map[string]struct{}{},
	}
}

const localityHintsStateKey = "locality-hints"

// localityHintsFromState returns the hints calculate-locality-hints
// computed earlier in the pipeline for this call, or resolves them
// directly if a custom pipeline description omitted that stage.
func localityHintsFromState(state *State, vm VMRequest, servers []Server) LocalityHints {
	if v, ok := state.Get(localityHintsStateKey); ok {
		return v.(LocalityHints)
	}
	return ResolveLocality(vm, servers)
}

// ResolveLocality scans every VM on every candidate server to turn
// vm.locality and vm.affinity into concrete near/far server-UUID sets.
func ResolveLocality(vm VMRequest, servers []Server) LocalityHints {
	hints := newLocalityHints()

	if vm.Locality != nil {
		near := resolveVMUUIDsToServers(vm.Locality.Near, servers)
		far := resolveVMUUIDsToServers(vm.Locality.Far, servers)
		dst := hints.SoftNear
		dstFar := hints.SoftFar
		if vm.Locality.Strict {
			dst, dstFar = hints.StrictNear, hints.StrictFar
		}
		for uuid := range near {
			dst[uuid] = struct{}{}
		}
		for uuid := range far {
			dstFar[uuid] = struct{}{}
		}
	}

	for _, rule := range vm.Affinity {
		matchedServers := resolveAffinityRule(rule, servers)
		var near, far map[string]struct{}
		if rule.IsSoft {
			near, far = hints.SoftNear, hints.SoftFar
		} else {
			near, far = hints.StrictNear, hints.StrictFar
		}
		target := near
		if rule.Operator == AffinityNotEquals {
			target = far
		}
		for uuid := range matchedServers {
			target[uuid] = struct{}{}
		}
	}

	return hints
}

// resolveVMUUIDsToServers maps a list of VM UUIDs (from vm.locality) to the
// UUIDs of the servers currently hosting them.
func resolveVMUUIDsToServers(vmUUIDs []string, servers []Server) map[string]struct{} {
	want := make(map[string]struct{}, len(vmUUIDs))
	for _, u := range vmUUIDs {
		want[u] = struct{}{}
	}
	result := map[string]struct{}{}
	for _, server := range servers {
		for vmUUID := range server.VMs {
			if _, ok := want[vmUUID]; ok {
				result[server.UUID] = struct{}{}
				break
			}
		}
	}
	return result
}

// resolveAffinityRule finds every server hosting at least one VM matched by
// rule.
func resolveAffinityRule(rule AffinityRule, servers []Server) map[string]struct{} {
	matched := map[string]struct{}{}
	for _, server := range servers {
		for vmUUID, vm := range server.VMs {
			if affinityRuleMatchesVM(rule, vmUUID, vm) {
				matched[server.UUID] = struct{}{}
				break
			}
		}
	}
	return matched
}

func affinityRuleMatchesVM(rule AffinityRule, vmUUID string, vm ServerVM) bool {
	switch rule.Key {
	case "instance", "container":
		return instanceKeyMatches(rule, vmUUID, vm)
	default:
		tagValue, ok := vm.Tags[rule.Key]
		if !ok {
			return false
		}
		return valueMatches(rule.ValueType, rule.Value, tagValue.String())
	}
}

// instanceKeyMatches implements the "instance"/"container" key rules:
// exact accepts a full UUID, a full alias, or any prefix of the docker
// ID; glob/re match the alias. Whether a docker ID prefix also matches
// other VMs is not checked, so an ambiguous prefix matches every VM it
// prefixes.
func instanceKeyMatches(rule AffinityRule, vmUUID string, vm ServerVM) bool {
	switch rule.ValueType {
	case AffinityValueExact:
		if rule.Value == vmUUID || rule.Value == vm.Alias {
			return true
		}
		if vm.DockerID != "" && strings.HasPrefix(vm.DockerID, rule.Value) {
			return true
		}
		return false
	default:
		return valueMatches(rule.ValueType, rule.Value, vm.Alias)
	}
}

func valueMatches(valueType AffinityValueType, pattern, candidate string) bool {
	switch valueType {
	case AffinityValueExact:
		return pattern == candidate
	case AffinityValueGlob:
		ok, err := filepath.Match(pattern, candidate)
		return err == nil && ok
	case AffinityValueRegex:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(candidate)
	default:
		return false
	}
}
