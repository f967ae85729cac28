package domain

// Extraction is the plain text recovered from one source document,
// ready for segmentation.
type Extraction struct {
	// Text is the normalised text. It may be empty.
	Text string

	// Pages is the page count for paginated formats, 0 otherwise.
	Pages int

	// OCR is true when the text came from optical recognition.
	OCR bool

	// Warnings are non-fatal problems met during extraction.
	Warnings []string
}

// IsEmpty returns true if no text was recovered.
func (e *Extraction) IsEmpty() bool {
	return e == nil || e.Text == ""
}
