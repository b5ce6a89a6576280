// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeVMRequest, DecodeImageManifest, DecodePackage, DecodeTicket, and
// DecodeServer strictly decode a JSON-shaped input, rejecting unknown
// fields so a malformed caller payload fails before Validation ever runs.
func DecodeVMRequest(raw []byte) (VMRequest, error)         { return decodeStrict[VMRequest](raw) }
func DecodeImageManifest(raw []byte) (ImageManifest, error) { return decodeStrict[ImageManifest](raw) }
func DecodePackage(raw []byte) (Package, error)             { return decodeStrict[Package](raw) }
func DecodeTicket(raw []byte) (Ticket, error)               { return decodeStrict[Ticket](raw) }
func DecodeServer(raw []byte) (Server, error)               { return decodeStrict[Server](raw) }

func decodeStrict[T any](raw []byte) (T, error) {
	var v T
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrInputInvalid, err)
	}
	return v, nil
}

// LoadDefaults decodes a possibly-partial JSON defaults record, layering it
// over DefaultDefaults() before the per-field decode: a caller only needs
// to set the keys they want to override, unknown keys are ignored, and an
// invalid type on a known key fails the load. The layering happens on the
// decoded map rather than the struct so that a key the caller never
// mentions is left untouched instead of round-tripping through a Go zero
// value that would collide with an explicit zero (see defaultWeight).
func LoadDefaults(raw []byte) (Defaults, error) {
	base, err := toMap(DefaultDefaults())
	if err != nil {
		return Defaults{}, err
	}
	if len(raw) > 0 {
		var override map[string]any
		if err := json.Unmarshal(raw, &override); err != nil {
			return Defaults{}, fmt.Errorf("%w: defaults: %w", ErrInputInvalid, err)
		}
		base = layerDefaultsOverride(base, override)
	}
	merged, err := json.Marshal(base)
	if err != nil {
		return Defaults{}, err
	}
	var d Defaults
	if err := json.Unmarshal(merged, &d); err != nil {
		return Defaults{}, fmt.Errorf("%w: defaults: %w", ErrInputInvalid, err)
	}
	return d, nil
}

// layerDefaultsOverride recursively overrides base with override (in
// place) and returns base. A nil value in override means "not set", so it
// leaves the corresponding base entry alone rather than erasing it; this
// is what lets an operator's partial defaults file only mention the keys
// it wants to change.
func layerDefaultsOverride(base, override map[string]any) map[string]any {
	for k, v := range override {
		if v == nil {
			continue
		}
		if baseVal, ok := base[k]; ok {
			baseMap, baseIsMap := baseVal.(map[string]any)
			overrideMap, overrideIsMap := v.(map[string]any)
			if baseIsMap && overrideIsMap {
				base[k] = layerDefaultsOverride(baseMap, overrideMap)
				continue
			}
		}
		base[k] = v
	}
	return base
}

// LoadDefaultsYAML decodes a Defaults record from YAML, the format several
// hosts keep their allocator configuration in on disk. Reading the file
// itself stays the caller's responsibility; this only parses the bytes.
func LoadDefaultsYAML(raw []byte) (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Defaults{}, fmt.Errorf("%w: defaults: %w", ErrInputInvalid, err)
	}
	return d, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
