// Package normalisers provides the Extractor implementations and the
// registry that dispatches a corpus file to the right one by extension.
//
// Each sub-package knows how to recover plain text from one format:
//
//   - latex: rule-based LaTeX cleanup with a Latin-1 fallback
//   - pdf: per-page text layer with an OCR fallback for scans
package normalisers
