// Package chunker splits extracted text into page- or section-sized chunks,
// packing paragraphs greedily when a unit exceeds the size budget.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// Ensure Processor implements the interface.
var _ driven.Segmenter = (*Processor)(nil)

// unitBoundary matches the sentinels emitted by the extractors: PDF page
// markers on their own line, LaTeX page breaks and problem headings.
var unitBoundary = regexp.MustCompile(`(?m)^--- Pagina \d+ ---$|---NUEVA PAGINA---|## Problema`)

const paragraphSep = "\n\n"

// Processor splits text into chunks.
// It implements the Segmenter interface.
type Processor struct {
	chunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured budget.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Segment splits text into ordered chunks. Units that fit the budget become
// one chunk numbered by unit index; larger units are packed paragraph by
// paragraph into sub-chunks numbered "<unit>_<k>". A single paragraph larger
// than the budget is kept whole.
func (p *Processor) Segment(text string, doc domain.SourceDocument) []domain.Chunk {
	var chunks []domain.Chunk

	for i, unit := range Units(text) {
		if utf8.RuneCountInString(unit) <= p.chunkSize {
			chunks = append(chunks, newChunk(doc, unit, domain.UnitChunkNumber(i)))
			continue
		}
		for k, piece := range p.pack(unit) {
			chunks = append(chunks, newChunk(doc, piece, domain.SubChunkNumber(i, k)))
		}
	}

	return chunks
}

// Units splits text on unit sentinels, trims each unit and discards units
// left empty. The sentinels themselves never reach a unit.
func Units(text string) []string {
	var units []string
	for _, raw := range unitBoundary.Split(text, -1) {
		unit := strings.TrimSpace(raw)
		if unit == "" {
			continue
		}
		units = append(units, unit)
	}
	return units
}

// pack accumulates paragraphs while the buffer plus the next paragraph stays
// under the budget, flushing the trimmed buffer otherwise.
func (p *Processor) pack(unit string) []string {
	var (
		pieces []string
		buf    strings.Builder
		bufLen int
	)

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			pieces = append(pieces, s)
		}
		buf.Reset()
		bufLen = 0
	}

	for _, para := range strings.Split(unit, paragraphSep) {
		paraLen := utf8.RuneCountInString(para)
		if bufLen+paraLen >= p.chunkSize {
			flush()
		}
		buf.WriteString(para)
		buf.WriteString(paragraphSep)
		bufLen += paraLen + len(paragraphSep)
	}
	flush()

	return pieces
}

func newChunk(doc domain.SourceDocument, content, number string) domain.Chunk {
	return domain.Chunk{
		Content:     content,
		Source:      doc.Filename,
		Category:    doc.Category,
		ChunkNumber: number,
		FileType:    doc.FileType,
	}
}
