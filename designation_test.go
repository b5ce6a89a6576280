// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"github.com/google/uuid"
)

func newUUID() string { return uuid.NewString() }

// testServer builds a minimal, otherwise-eligible compute node: set up,
// running, not reserved/reservoir/headnode/virtual, with totalMiB of
// memory and the given reservation ratio.
func testServer(totalMiB float64, reservationRatio float64) Server {
	return Server{
		UUID:             newUUID(),
		MemoryTotalBytes: totalMiB * mib,
		ReservationRatio: reservationRatio,
		Setup:            true,
		Running:          true,
		SysInfo: SysInfo{
			CPUOnlineCount: 32,
			LiveImage:      "20230101T000000Z",
		},
		VMs: map[string]ServerVM{},
	}
}

func testVM(owner string, ramMiB float64) VMRequest {
	return VMRequest{
		OwnerUUID: owner,
		RAM:       ramMiB,
	}
}

func testPackage(maxPhysicalMemory float64) Package {
	return Package{MaxPhysicalMemory: maxPhysicalMemory}
}

func newTestAllocator() *Allocator {
	return NewAllocator(nil, DefaultDefaults())
}
