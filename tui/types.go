package main

// API types mirrored from the server's JSON responses.

type Task struct {
	ID       int64   `json:"id"`
	URL      string  `json:"url"`
	Source   string  `json:"source"`
	Title    string  `json:"title,omitempty"`
	Quality  string  `json:"quality,omitempty"`
	Progress float64 `json:"progress"`
	Speed    string  `json:"speed,omitempty"`
	ETA      string  `json:"eta,omitempty"`
	Status   string  `json:"status"`
	FilePath string  `json:"file_path,omitempty"`
	Error    string  `json:"error,omitempty"`
}

type QualityOption struct {
	Name         string `json:"name"`
	Height       int    `json:"height"`
	ActualHeight int    `json:"actual_height"`
	Selector     string `json:"format_selector"`
	Description  string `json:"description"`
}

type Metadata struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	Uploader  string `json:"uploader,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	URL       string `json:"url"`
}

type InspectResponse struct {
	Metadata  Metadata        `json:"metadata"`
	Qualities []QualityOption `json:"qualities"`
}
