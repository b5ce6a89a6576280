// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import "errors"

// ErrInputInvalid is the sentinel for a malformed VM/image/package/ticket/
// defaults input: the whole call fails before the pipeline runs. Wrap it
// with fmt.Errorf("%w: ...") to name the offending field.
var ErrInputInvalid = errors.New("designation: invalid input")

// ErrNoServers names the case where the pipeline empties the candidate
// set. Allocate neither returns nor records this value: in that case it
// returns a nil chosen server with the accumulated reasons and a nil
// error.
var ErrNoServers = errors.New("designation: no servers available")
