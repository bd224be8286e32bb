package models

import "encoding/json"

// PipelineSummary is the slim pipeline representation.
type PipelineSummary struct {
	ID     int    `json:"id" gl:"id,required"`
	Status string `json:"status"`
	Ref    string `json:"ref"`
	SHA    string `json:"sha" glconv:"shortsha"`
	Source string `json:"source"`
	URL    string `json:"url" gl:"web_url"`

	CreatedAt  string `json:"-" gl:"created_at"`
	UpdatedAt  string `json:"-" gl:"updated_at"`
	StartedAt  string `json:"-" gl:"started_at"`
	FinishedAt string `json:"-" gl:"finished_at"`

	// Seconds, present on detail responses only.
	Duration *int `json:"duration"`
}

func (p PipelineSummary) MarshalJSON() ([]byte, error) {
	type alias PipelineSummary

	out := struct {
		alias
		Created  string  `json:"created"`
		Updated  string  `json:"updated"`
		Started  *string `json:"started"`
		Finished *string `json:"finished"`
	}{
		alias:   alias(p),
		Created: RelativeTime(p.CreatedAt),
		Updated: RelativeTime(p.UpdatedAt),
	}

	if p.StartedAt != "" {
		s := RelativeTime(p.StartedAt)
		out.Started = &s
	}

	if p.FinishedAt != "" {
		s := RelativeTime(p.FinishedAt)
		out.Finished = &s
	}

	return json.Marshal(out)
}

// JobSummary is the slim CI job representation.
type JobSummary struct {
	ID            int      `json:"id" gl:"id,required"`
	Name          string   `json:"name"`
	Stage         string   `json:"stage"`
	Status        string   `json:"status"`
	AllowFailure  bool     `json:"allow_failure"`
	URL           string   `json:"url" gl:"web_url"`
	FailureReason *string  `json:"failure_reason"`
	Artifacts     []string `json:"-" glconv:"artifacts"`

	StartedAt  string `json:"-" gl:"started_at"`
	FinishedAt string `json:"-" gl:"finished_at"`

	// Seconds. GitLab reports fractional durations for jobs.
	Duration *float64 `json:"duration"`
}

func (j JobSummary) MarshalJSON() ([]byte, error) {
	// A job without artifacts omits the field entirely rather than
	// carrying an empty list.
	var artifacts []string
	for _, a := range j.Artifacts {
		if a != "" {
			artifacts = append(artifacts, a)
		}
	}

	type alias JobSummary

	out := struct {
		alias
		Started   *string  `json:"started"`
		Finished  *string  `json:"finished"`
		Artifacts []string `json:"artifacts,omitempty"`
	}{
		alias:     alias(j),
		Artifacts: artifacts,
	}

	if j.StartedAt != "" {
		s := RelativeTime(j.StartedAt)
		out.Started = &s
	}

	if j.FinishedAt != "" {
		s := RelativeTime(j.FinishedAt)
		out.Finished = &s
	}

	return json.Marshal(out)
}
