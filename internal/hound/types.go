// Package hound is the HTTP client for a Hound code-search server.
package hound

// Query describes one search request. It is built once per run and
// read-only afterwards.
type Query struct {
	Pattern     string // regular expression sent to the server
	Repos       string // comma-joined repository selector, or "*"
	PathPattern string // optional file path filter
	IgnoreCase  bool
}

// SearchResponse is the wire shape of the search endpoint.
type SearchResponse struct {
	Error   string                `json:"Error,omitempty"`
	Results map[string]RepoResult `json:"Results"`
}

// RepoResult holds one repository's slice of the result set.
type RepoResult struct {
	FilesWithMatch int         `json:"FilesWithMatch"`
	Matches        []FileMatch `json:"Matches"`
}

// FileMatch groups all matches the server returned for one file.
type FileMatch struct {
	Filename string      `json:"Filename"`
	Matches  []LineMatch `json:"Matches"`
}

// LineMatch is a single matched line with the context lines the server
// chose to include around it.
type LineMatch struct {
	Line       string   `json:"Line"`
	LineNumber int      `json:"LineNumber"` // 1-based
	Before     []string `json:"Before"`
	After      []string `json:"After"`
}

// Outcome is the result of one search call. TooMany reports the server's
// "search exceeds limit" rejection, which is an expected outcome rather
// than an error: it tells the caller to retry with a smaller window.
type Outcome struct {
	TooMany bool
	Results map[string]RepoResult
}
