// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "testing"

func TestScoreByRankAssignsHighestToWinner(t *testing.T) {
	a, b, c := testServer(1, 0), testServer(1, 0), testServer(1, 0)
	servers := []Server{a, b, c}
	less := func(x, y Server) bool { return x.UUID < y.UUID }

	scores := scoreByRank(servers, 2.0, less)
	var ordered []string
	for _, s := range servers {
		ordered = append(ordered, s.UUID)
	}
	sortedUUIDs := append([]string(nil), ordered...)
	for i := 0; i < len(sortedUUIDs); i++ {
		for j := i + 1; j < len(sortedUUIDs); j++ {
			if sortedUUIDs[j] < sortedUUIDs[i] {
				sortedUUIDs[i], sortedUUIDs[j] = sortedUUIDs[j], sortedUUIDs[i]
			}
		}
	}
	if scores[sortedUUIDs[0]] != 0 {
		t.Fatalf("expected the lowest-ranked uuid to score 0, got %f", scores[sortedUUIDs[0]])
	}
	if scores[sortedUUIDs[2]] != 2.0 {
		t.Fatalf("expected the highest-ranked uuid to score the full weight, got %f", scores[sortedUUIDs[2]])
	}
}

// A negative weight inverts which end of the ranking scores highest, but
// the contribution itself never goes negative.
func TestScoreByRankNegativeWeightInvertsButStaysNonNegative(t *testing.T) {
	a, b := testServer(1, 0), testServer(1, 0)
	if a.UUID > b.UUID {
		a, b = b, a
	}
	servers := []Server{a, b}
	less := func(x, y Server) bool { return x.UUID < y.UUID }

	positive := scoreByRank(servers, 3.0, less)
	negative := scoreByRank(servers, -3.0, less)

	for uuid, v := range negative {
		if v < 0 {
			t.Fatalf("expected non-negative score for %s, got %f", uuid, v)
		}
	}
	if positive[a.UUID] == negative[a.UUID] {
		t.Fatal("expected the negative weight to invert the ranking")
	}
}

func TestScoreByRankWithFewerThanTwoServersIsZero(t *testing.T) {
	solo := []Server{testServer(1, 0)}
	scores := scoreByRank(solo, 5.0, func(a, b Server) bool { return false })
	if scores[solo[0].UUID] != 0 {
		t.Fatalf("expected a lone server to score 0, got %f", scores[solo[0].UUID])
	}
}

// defaultWeight must distinguish an unset weight (nil, fall back to the
// documented default) from an explicitly-zero one (disable the scorer).
func TestDefaultWeightDistinguishesNilFromExplicitZero(t *testing.T) {
	if got := defaultWeight(nil, 2.0); got != 2.0 {
		t.Fatalf("expected nil to fall back to the default, got %f", got)
	}
	zero := 0.0
	if got := defaultWeight(&zero, 2.0); got != 0 {
		t.Fatalf("expected an explicit zero to be honored, got %f", got)
	}
}

// A caller disabling score-current-platform via an explicit weight of 0
// must see it actually disabled, not silently re-enabled at its default.
func TestNewScoreCurrentPlatformHonorsExplicitZeroWeight(t *testing.T) {
	older, newer := testServer(1, 0), testServer(1, 0)
	older.SysInfo.LiveImage = "20200101T000000Z"
	newer.SysInfo.LiveImage = "20230101T000000Z"

	zero := 0.0
	defaults := DefaultDefaults()
	defaults.WeightCurrentPlatform = &zero

	algo := newScoreCurrentPlatform()
	result := algo.Run(nil, NewState(), []Server{older, newer}, Constraints{Defaults: defaults})
	for uuid, score := range result.ScoreDeltas {
		if score != 0 {
			t.Fatalf("expected every score delta to be 0 with the scorer disabled, got %f for %s", score, uuid)
		}
	}
}
