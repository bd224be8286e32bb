package models

import "encoding/json"

// ReleaseAssetLink is a named download attached to a release.
type ReleaseAssetLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ReleaseSummary is the slim release representation.
type ReleaseSummary struct {
	TagName     string             `json:"tag_name" gl:"tag_name,required"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Author      string             `json:"author" glconv:"username"`
	Assets      []ReleaseAssetLink `json:"-" gl:"assets" glconv:"assetlinks"`

	CreatedAt  string `json:"-" gl:"created_at"`
	ReleasedAt string `json:"-" gl:"released_at"`
}

func (r ReleaseSummary) MarshalJSON() ([]byte, error) {
	assets := r.Assets
	if assets == nil {
		assets = []ReleaseAssetLink{}
	}

	type alias ReleaseSummary

	return json.Marshal(struct {
		alias
		Created  string             `json:"created"`
		Released string             `json:"released"`
		Assets   []ReleaseAssetLink `json:"assets"`
	}{alias(r), RelativeTime(r.CreatedAt), RelativeTime(r.ReleasedAt), assets})
}

// ReleaseDeleteResult reports the removal of a release.
type ReleaseDeleteResult struct {
	Deleted bool   `json:"deleted"`
	TagName string `json:"tag_name"`
}
