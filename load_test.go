// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "testing"

func TestDecodeVMRequestRejectsUnknownFields(t *testing.T) {
	raw := []byte(`{"owner_uuid":"` + newUUID() + `","ram":1024,"bogus_field":true}`)
	if _, err := DecodeVMRequest(raw); err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestDecodeVMRequestAcceptsWellFormedInput(t *testing.T) {
	owner := newUUID()
	raw := []byte(`{"owner_uuid":"` + owner + `","ram":2048}`)
	vm, err := DecodeVMRequest(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vm.OwnerUUID != owner || vm.RAM != 2048 {
		t.Fatalf("unexpected decode result: %+v", vm)
	}
}

func TestLoadDefaultsMergesOverPartialJSON(t *testing.T) {
	d, err := LoadDefaults([]byte(`{"filter_vm_limit": 42}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.FilterVMLimit != 42 {
		t.Fatalf("expected the override to take effect, got %d", d.FilterVMLimit)
	}
	if d.WeightUnreservedRAM == nil || *d.WeightUnreservedRAM != *DefaultDefaults().WeightUnreservedRAM {
		t.Fatalf("expected untouched fields to keep their default, got %v", d.WeightUnreservedRAM)
	}
}

// An explicit weight of 0 must survive the merge as 0, not fall back to
// the documented nonzero default the way an absent key does.
func TestLoadDefaultsPreservesExplicitZeroWeight(t *testing.T) {
	d, err := LoadDefaults([]byte(`{"weight_current_platform": 0}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.WeightCurrentPlatform == nil || *d.WeightCurrentPlatform != 0 {
		t.Fatalf("expected an explicit weight of 0 to survive the merge, got %v", d.WeightCurrentPlatform)
	}
}

func TestLoadDefaultsYAML(t *testing.T) {
	raw := []byte("filter_vm_limit: 99\nweight_current_platform: 3.5\n")
	d, err := LoadDefaultsYAML(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.FilterVMLimit != 99 {
		t.Fatalf("expected filter_vm_limit 99, got %d", d.FilterVMLimit)
	}
	if d.WeightCurrentPlatform == nil || *d.WeightCurrentPlatform != 3.5 {
		t.Fatalf("expected weight_current_platform 3.5, got %v", d.WeightCurrentPlatform)
	}
}
