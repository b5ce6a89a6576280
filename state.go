// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "time"

// State is the mutable scratch map keyed by stage name; each stage owns
// its own slot. It belongs to exactly one Allocator instance and is not
// safe for concurrent Allocate calls without the host serializing them.
type State struct {
	slots map[string]any
}

// NewState creates an empty State.
func NewState() *State { return &State{slots: map[string]any{}} }

// Get returns the stage's slot value and whether it was present.
func (s *State) Get(stage string) (any, bool) {
	v, ok := s.slots[stage]
	return v, ok
}

// Set stores v in the stage's slot.
func (s *State) Set(stage string, v any) { s.slots[stage] = v }

// recentServerTTL is the window after which a recorded selection is
// purged.
const recentServerTTL = 5000 * time.Millisecond

// recentServerSoftCapFraction is the maximum share of the candidate set
// the soft recent-server filter will drop.
const recentServerSoftCapFraction = 0.25

// recentServers is the allocator-owned "avoid stampedes" memory: it
// remembers which servers were picked recently so a burst of allocation
// calls doesn't all pile requests onto the one server that just won. It
// is an explicit field of the Allocator, not module-global, so that
// per-thread/per-instance allocators each get independent memory.
type recentServers struct {
	lastUsed map[string]time.Time
	now      func() time.Time
}

func newRecentServers(now func() time.Time) *recentServers {
	if now == nil {
		now = time.Now
	}
	return &recentServers{lastUsed: map[string]time.Time{}, now: now}
}

// purge drops entries older than recentServerTTL.
func (r *recentServers) purge() {
	cutoff := r.now().Add(-recentServerTTL)
	for uuid, ts := range r.lastUsed {
		if ts.Before(cutoff) {
			delete(r.lastUsed, uuid)
		}
	}
}

// record marks uuid as just used, called from the Facade's post-selection
// phase after a server has been chosen.
func (r *recentServers) record(uuid string) {
	r.lastUsed[uuid] = r.now()
}

// isRecent reports whether uuid was used within the last recentServerTTL.
func (r *recentServers) isRecent(uuid string) bool {
	ts, ok := r.lastUsed[uuid]
	return ok && !ts.Before(r.now().Add(-recentServerTTL))
}

// recencyOf returns the timestamp uuid was last used, for sorting
// "drop the most recent first" in the soft filter.
func (r *recentServers) recencyOf(uuid string) time.Time {
	return r.lastUsed[uuid]
}

const recentServersStateKey = "recent-servers"

// recentServersFromState returns the Allocator's single recentServers
// instance, creating it (on the wall clock) the first time it's asked
// for. The instance then stays in the Allocator's State, so every later
// call shares the same memory.
func recentServersFromState(state *State) *recentServers {
	if v, ok := state.Get(recentServersStateKey); ok {
		return v.(*recentServers)
	}
	rs := newRecentServers(nil)
	state.Set(recentServersStateKey, rs)
	return rs
}
