// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "testing"

func TestTraitMatchesScalarScalar(t *testing.T) {
	if !TraitMatches(StrTrait("a"), StrTrait("a"), true) {
		t.Fatal("expected equal scalars to match")
	}
	if TraitMatches(StrTrait("a"), StrTrait("b"), true) {
		t.Fatal("expected unequal scalars not to match")
	}
}

func TestTraitMatchesListVsScalarAndScalarVsList(t *testing.T) {
	if !TraitMatches(ListTrait([]string{"a", "b"}), StrTrait("b"), true) {
		t.Fatal("expected scalar to be found in required list")
	}
	if !TraitMatches(StrTrait("b"), ListTrait([]string{"a", "b"}), true) {
		t.Fatal("expected required scalar to be found in server list")
	}
}

func TestTraitMatchesListVsListIntersection(t *testing.T) {
	if !TraitMatches(ListTrait([]string{"a", "b"}), ListTrait([]string{"b", "c"}), true) {
		t.Fatal("expected overlapping lists to match")
	}
	if TraitMatches(ListTrait([]string{"a"}), ListTrait([]string{"b"}), true) {
		t.Fatal("expected disjoint lists not to match")
	}
}

// A missing trait must be equivalent to false.
func TestTraitMatchesMissingEqualsFalse(t *testing.T) {
	if !TraitMatches(BoolTrait(false), TraitValue{}, false) {
		t.Fatal("expected missing trait to satisfy a required false")
	}
	if TraitMatches(BoolTrait(true), TraitValue{}, false) {
		t.Fatal("expected missing trait not to satisfy a required true")
	}
	if TraitMatches(StrTrait("x"), TraitValue{}, false) {
		t.Fatal("expected missing trait not to satisfy a required scalar string")
	}
}

func TestTraitsSatisfiedUnion(t *testing.T) {
	required := Traits{"ssd": BoolTrait(true), "region": StrTrait("eu")}
	server := Traits{"ssd": BoolTrait(true), "region": StrTrait("eu"), "extra": BoolTrait(true)}
	if !TraitsSatisfied(required, server) {
		t.Fatal("expected server traits to satisfy required traits")
	}
	delete(server, "region")
	if TraitsSatisfied(required, server) {
		t.Fatal("expected missing required trait to fail")
	}
}
