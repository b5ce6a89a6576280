// Copyright SAP SE
// SPDX-License-Identifier: Apache-2.0

package testutil

// Ptr returns a pointer to v, for constructing optional fields in tests.
func Ptr[T any](v T) *T { return &v }
