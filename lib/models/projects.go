package models

import (
	"encoding/json"
	"time"
)

// ProjectSummary is the slim project representation. Activity and
// visibility flags are computed at serialization time so a cached model
// stays truthful when rendered later.
type ProjectSummary struct {
	ID                int      `json:"id" gl:"id,required"`
	Name              string   `json:"name"`
	PathWithNamespace string   `json:"path_with_namespace"`
	Description       string   `json:"description"`
	DefaultBranch     string   `json:"default_branch"`
	Visibility        string   `json:"visibility"`
	Topics            []string `json:"topics"`
	StarCount         int      `json:"star_count"`
	ForksCount        int      `json:"forks_count"`
	OpenIssuesCount   int      `json:"open_issues_count"`
	URL               string   `json:"url" gl:"web_url"`

	LastActivityAt string `json:"-" gl:"last_activity_at"`
}

// activeWindow is how recently a project must have seen activity to count
// as active.
const activeWindow = 30 * 24 * time.Hour

func (p ProjectSummary) MarshalJSON() ([]byte, error) {
	if p.Topics == nil {
		p.Topics = []string{}
	}

	active := false
	if t, err := parseTimestamp(p.LastActivityAt); err == nil {
		active = now().Sub(t) < activeWindow
	}

	type alias ProjectSummary

	return json.Marshal(struct {
		alias
		LastActivity string `json:"last_activity"`
		IsActive     bool   `json:"is_active"`
		IsPublic     bool   `json:"is_public"`
	}{alias(p), RelativeTime(p.LastActivityAt), active, p.Visibility == "public"})
}

// ProjectMember is a user with a role in a project.
type ProjectMember struct {
	ID          int    `json:"id" gl:"id,required"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	AccessLevel string `json:"access_level" glconv:"accesslevel"`
	State       string `json:"state"`
}
