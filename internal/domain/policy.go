package domain

// Policy is a static legal page rendered from markdown.
type Policy struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}
