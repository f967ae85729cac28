package domain

import "time"

// IndexReport summarises one indexing run.
type IndexReport struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`

	// Files is the number of files processed, including failures.
	Files int `json:"files"`

	// Chunks is the number of chunks written to the store.
	Chunks int `json:"chunks"`

	// Errors is the number of files that failed to extract or store.
	Errors int `json:"errors"`

	// Empty is the number of files that produced no chunks.
	Empty int `json:"empty"`

	// FirstID and LastID bound the ids assigned in this run.
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`

	// Warnings collects per-file problems, prefixed by filename.
	Warnings []string `json:"warnings,omitempty"`

	Duration time.Duration `json:"duration"`
}
