// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

// PlatformAtLeast reports whether the server's Live Image timestamp is >=
// the required timestamp. Comparison is lexicographic on the timestamp
// string, which is valid because the YYYYMMDDTHHMMSSZ format is
// monotonic.
func PlatformAtLeast(liveImage, required string) bool {
	return liveImage >= required
}

// PlatformAtMost reports whether the server's Live Image timestamp is <=
// the required timestamp.
func PlatformAtMost(liveImage, required string) bool {
	return liveImage <= required
}

// PlatformSatisfiesMin checks every SDC-version key in minPlatform against
// the server's Live Image. The SDC version key itself is not matched
// against the server (the
// source designation engine does not track per-server SDC version, only
// the single Live Image timestamp), so every key's timestamp requirement
// applies uniformly to that one Live Image value.
func PlatformSatisfiesMin(liveImage string, minPlatform map[string]string) (ok bool, failingVersion string) {
	for sdcVersion, required := range minPlatform {
		if !PlatformAtLeast(liveImage, required) {
			return false, sdcVersion
		}
	}
	return true, ""
}

// PlatformSatisfiesMax is the symmetric check for max_platform.
func PlatformSatisfiesMax(liveImage string, maxPlatform map[string]string) (ok bool, failingVersion string) {
	for sdcVersion, required := range maxPlatform {
		if !PlatformAtMost(liveImage, required) {
			return false, sdcVersion
		}
	}
	return true, ""
}
