package models

// UploadResult is a file uploaded to a project, with the markdown snippet
// ready to paste into a description or note.
type UploadResult struct {
	URL      string `json:"url" gl:"url,required"`
	FullPath string `json:"full_path"`
	Markdown string `json:"markdown"`
	Alt      string `json:"alt"`
}
