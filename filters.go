// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

// keep decides whether a server survives a boolean-predicate filter;
// reason explains why a dropped server was dropped.
func filterServers(servers []Server, keep func(Server) bool, reason func(Server) string) StepResult {
	kept := make([]Server, 0, len(servers))
	reasons := map[string]string{}
	for _, s := range servers {
		if keep(s) {
			kept = append(kept, s)
			continue
		}
		reasons[s.UUID] = reason(s)
	}
	return StepResult{Servers: kept, Reasons: reasons}
}

// requestedCPUCap resolves the CPU cap the VM is effectively asking for:
// the VM's own cpu_cap if set, otherwise the package's.
func requestedCPUCap(c Constraints) float64 {
	if c.VM.CPUCap != nil {
		return *c.VM.CPUCap
	}
	return c.Package.CPUCap
}

// requestedDiskMiB resolves the disk size the VM is effectively asking
// for. The package's quota field is the flavor's disk allotment and is
// already expressed in the same MiB unit as Derived.UnreservedDisk.
func requestedDiskMiB(c Constraints) float64 {
	if c.VM.Quota != nil {
		return *c.VM.Quota
	}
	return c.Package.Quota
}
