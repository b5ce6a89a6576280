// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package designation

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDescriptionYAMLRoundTripsStage(t *testing.T) {
	desc := StageDescription(stageHardFilterSetup)
	raw, err := yaml.Marshal(desc)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	var decoded Description
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if decoded.Stage != stageHardFilterSetup {
		t.Fatalf("expected stage %q, got %+v", stageHardFilterSetup, decoded)
	}
}

func TestDescriptionYAMLRoundTripsPipe(t *testing.T) {
	desc := PipeDescription(StageDescription(stageHardFilterSetup), StageDescription(stageHardFilterRunning))
	raw, err := yaml.Marshal(desc)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	var decoded Description
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if len(decoded.Pipe) != 2 || decoded.Pipe[0].Stage != stageHardFilterSetup || decoded.Pipe[1].Stage != stageHardFilterRunning {
		t.Fatalf("unexpected decoded pipe: %+v", decoded)
	}
}

func TestDescriptionYAMLRejectsEmptySequence(t *testing.T) {
	var decoded Description
	err := yaml.Unmarshal([]byte("[]\n"), &decoded)
	if err == nil {
		t.Fatal("expected an error for an empty sequence")
	}
}
