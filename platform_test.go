// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "testing"

// Platform timestamps must compare lexicographically, and that ordering
// must match chronological order for the YYYYMMDDTHHMMSSZ format.
func TestPlatformOrdering(t *testing.T) {
	older := "20220101T000000Z"
	newer := "20230615T120000Z"

	if !PlatformAtLeast(newer, older) {
		t.Fatal("expected newer platform to satisfy at-least older")
	}
	if PlatformAtLeast(older, newer) {
		t.Fatal("expected older platform not to satisfy at-least newer")
	}
	if !PlatformAtMost(older, newer) {
		t.Fatal("expected older platform to satisfy at-most newer")
	}
	if PlatformAtMost(newer, older) {
		t.Fatal("expected newer platform not to satisfy at-most older")
	}
}

func TestPlatformSatisfiesMinReportsFailingVersion(t *testing.T) {
	ok, failing := PlatformSatisfiesMin("20220101T000000Z", map[string]string{"7.0": "20230101T000000Z"})
	if ok {
		t.Fatal("expected min-platform check to fail")
	}
	if failing != "7.0" {
		t.Fatalf("expected failing sdc version 7.0, got %q", failing)
	}
}

func TestPlatformSatisfiesMaxPasses(t *testing.T) {
	ok, _ := PlatformSatisfiesMax("20220101T000000Z", map[string]string{"7.0": "20230101T000000Z"})
	if !ok {
		t.Fatal("expected max-platform check to pass")
	}
}
