// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "testing"

func TestResolveLocalityStrictNearAndFar(t *testing.T) {
	nearVM, farVM := newUUID(), newUUID()
	nearServer := testServer(65536, 0.15)
	nearServer.VMs[nearVM] = ServerVM{MaxPhysicalMemory: 1024}
	farServer := testServer(65536, 0.15)
	farServer.VMs[farVM] = ServerVM{MaxPhysicalMemory: 1024}

	vm := testVM(newUUID(), 1024)
	vm.Locality = &Locality{Near: []string{nearVM}, Far: []string{farVM}, Strict: true}

	hints := ResolveLocality(vm, []Server{nearServer, farServer})
	if _, ok := hints.StrictNear[nearServer.UUID]; !ok {
		t.Fatal("expected the near server to be in StrictNear")
	}
	if _, ok := hints.StrictFar[farServer.UUID]; !ok {
		t.Fatal("expected the far server to be in StrictFar")
	}
}

func TestResolveLocalityNonStrictGoesToSoft(t *testing.T) {
	nearVM := newUUID()
	server := testServer(65536, 0.15)
	server.VMs[nearVM] = ServerVM{MaxPhysicalMemory: 1024}

	vm := testVM(newUUID(), 1024)
	vm.Locality = &Locality{Near: []string{nearVM}, Strict: false}

	hints := ResolveLocality(vm, []Server{server})
	if _, ok := hints.SoftNear[server.UUID]; !ok {
		t.Fatal("expected the near server to be in SoftNear")
	}
	if len(hints.StrictNear) != 0 {
		t.Fatal("expected no strict hints for a non-strict locality request")
	}
}

func TestAffinityRuleGlobMatchesAlias(t *testing.T) {
	matchingUUID := newUUID()
	server := testServer(65536, 0.15)
	server.VMs[matchingUUID] = ServerVM{Alias: "web-03"}

	rule := AffinityRule{Key: "instance", Operator: AffinityEquals, Value: "web-*", ValueType: AffinityValueGlob}
	matched := resolveAffinityRule(rule, []Server{server})
	if _, ok := matched[server.UUID]; !ok {
		t.Fatal("expected glob rule to match alias web-03")
	}
}

func TestAffinityRuleRegexMatchesTagValue(t *testing.T) {
	vmUUID := newUUID()
	server := testServer(65536, 0.15)
	server.VMs[vmUUID] = ServerVM{Tags: map[string]TraitValue{"role": StrTrait("db-primary")}}

	rule := AffinityRule{Key: "role", Operator: AffinityEquals, Value: "^db-.*$", ValueType: AffinityValueRegex}
	matched := resolveAffinityRule(rule, []Server{server})
	if _, ok := matched[server.UUID]; !ok {
		t.Fatal("expected regex rule to match tag value db-primary")
	}
}

func TestAffinityRuleNotEqualsRoutesToFar(t *testing.T) {
	vmUUID := newUUID()
	server := testServer(65536, 0.15)
	server.VMs[vmUUID] = ServerVM{Alias: "cache-01"}

	vm := testVM(newUUID(), 1024)
	vm.Affinity = []AffinityRule{{Key: "instance", Operator: AffinityNotEquals, Value: "cache-01", ValueType: AffinityValueExact}}

	hints := ResolveLocality(vm, []Server{server})
	if _, ok := hints.StrictFar[server.UUID]; !ok {
		t.Fatal("expected a != rule to place the matching server in StrictFar")
	}
}

func TestInstanceKeyExactMatchesDockerIDPrefix(t *testing.T) {
	vmUUID := newUUID()
	vm := ServerVM{DockerID: "abcdef0123456789"}
	rule := AffinityRule{Key: "instance", Operator: AffinityEquals, Value: "abcdef0", ValueType: AffinityValueExact}
	if !instanceKeyMatches(rule, vmUUID, vm) {
		t.Fatal("expected exact rule to match a docker id prefix")
	}
}
