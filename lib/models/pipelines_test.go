package models

import (
	"encoding/json"
	"testing"
)

func TestJobSummaryMarshalArtifacts(t *testing.T) {
	b, err := json.Marshal(JobSummary{ID: 1, Name: "build", Artifacts: []string{"report.xml", ""}})
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}

	artifacts, ok := got["artifacts"].([]any)
	if !ok {
		t.Fatalf("artifacts = %v, want a list", got["artifacts"])
	}

	if len(artifacts) != 1 || artifacts[0] != "report.xml" {
		t.Errorf("artifacts = %v, want the single non-empty name", artifacts)
	}
}

func TestJobSummaryMarshalNoArtifacts(t *testing.T) {
	for _, job := range []JobSummary{
		{ID: 1, Name: "build"},
		{ID: 2, Name: "lint", Artifacts: []string{""}},
	} {
		b, err := json.Marshal(job)
		if err != nil {
			t.Fatalf("Marshal() = %v", err)
		}

		var got map[string]any
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("Unmarshal() = %v", err)
		}

		if _, ok := got["artifacts"]; ok {
			t.Errorf("job %q: artifacts = %v, want the key omitted", job.Name, got["artifacts"])
		}
	}
}
