package models

import "encoding/json"

// NamespaceSummary is the slim namespace representation.
type NamespaceSummary struct {
	ID       int    `json:"id" gl:"id,required"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	FullPath string `json:"full_path"`
	Kind     string `json:"kind"` // "user" or "group"
	URL      string `json:"url" gl:"web_url"`
}

// NamespaceVerification reports whether a namespace path exists and what
// it resolves to.
type NamespaceVerification struct {
	Exists    bool              `json:"exists"`
	Path      string            `json:"path"`
	Namespace *NamespaceSummary `json:"namespace,omitempty"`
}

// UserSummary is the slim user representation.
type UserSummary struct {
	ID        int    `json:"id" gl:"id,required"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	State     string `json:"state"`
	AvatarURL string `json:"avatar_url"`
	URL       string `json:"url" gl:"web_url"`

	LastActivityOn string `json:"-" gl:"last_activity_on"`
}

func (u UserSummary) MarshalJSON() ([]byte, error) {
	type alias UserSummary

	return json.Marshal(struct {
		alias
		LastActive string `json:"last_active"`
	}{alias(u), RelativeTime(u.LastActivityOn)})
}

// EventSummary is a project activity event.
type EventSummary struct {
	ID         int    `json:"id" gl:"id,required"`
	Action     string `json:"action" gl:"action_name"`
	Author     string `json:"author" glconv:"usernameloose"`
	TargetType string `json:"target_type"`
	TargetIID  *int   `json:"target_iid"`

	CreatedAt string `json:"-" gl:"created_at"`
}

func (e EventSummary) MarshalJSON() ([]byte, error) {
	type alias EventSummary

	return json.Marshal(struct {
		alias
		Created string `json:"created"`
	}{alias(e), RelativeTime(e.CreatedAt)})
}

// IterationSummary is the slim iteration (sprint) representation.
type IterationSummary struct {
	ID        int     `json:"id" gl:"id,required"`
	IID       int     `json:"iid"`
	Title     string  `json:"title"`
	State     int     `json:"state"`
	StartDate *string `json:"start_date"`
	DueDate   *string `json:"due_date"`
	URL       string  `json:"url" gl:"web_url"`
}
