package types

import (
	"time"

	"github.com/okian/simonev/internal/domain/model"
)

// RosterUpload is the JSON body of a roster upload. Lines and Text are
// combined; Text is split on newlines.
type RosterUpload struct {
	Kind        string     `json:"kind"`
	Lines       []string   `json:"lines,omitempty"`
	Text        string     `json:"text,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// UnmatchedLine is a roster line no school matched, with near names.
type UnmatchedLine struct {
	Line        string   `json:"line"`
	Suggestions []string `json:"suggestions"`
}

// UploadResult reports what a roster upload changed.
type UploadResult struct {
	EventFound bool            `json:"event_found"`
	Matched    int             `json:"matched"`
	Credited   []string        `json:"credited"`
	Skipped    []string        `json:"skipped"`
	Unmatched  []UnmatchedLine `json:"unmatched"`
}

// UploadRequest is a roster upload after decoding.
type UploadRequest struct {
	EventID     string
	Kind        model.DataKind
	Lines       []string
	SubmittedAt time.Time
}
