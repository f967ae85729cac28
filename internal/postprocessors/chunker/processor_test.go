package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

func texDoc() domain.SourceDocument {
	return domain.SourceDocument{
		Path:     "corpus/campo_electrico/gauss.tex",
		Filename: "gauss.tex",
		Category: domain.CategoryCampoElectrico,
		FileType: domain.FileTypeTeX,
	}
}

func pdfDoc() domain.SourceDocument {
	return domain.SourceDocument{
		Path:     "corpus/corriente_directa/parcial.pdf",
		Filename: "parcial.pdf",
		Category: domain.CategoryCorrienteDirecta,
		FileType: domain.FileTypePDF,
	}
}

func numbers(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.ChunkNumber
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.ChunkSize())
		}
		if DefaultChunkSize != 2000 {
			t.Errorf("expected default budget 2000, got %d", DefaultChunkSize)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.ChunkSize() != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.ChunkSize())
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithChunkSize(-3))
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.ChunkSize())
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestSegment_EmptyText(t *testing.T) {
	p := New()
	for _, text := range []string{"", "   \n\n ", "---NUEVA PAGINA---\n---NUEVA PAGINA---"} {
		if chunks := p.Segment(text, texDoc()); len(chunks) != 0 {
			t.Errorf("expected 0 chunks for %q, got %d", text, len(chunks))
		}
	}
}

func TestSegment_TwoPageTeX(t *testing.T) {
	text := "## Intro\n\nCampo uniforme.\n\n---NUEVA PAGINA---\n\nSegunda pagina."

	chunks := New().Segment(text, texDoc())

	if !equal(numbers(chunks), []string{"0", "1"}) {
		t.Fatalf("unexpected chunk numbers %v", numbers(chunks))
	}
	if chunks[0].Content != "## Intro\n\nCampo uniforme." {
		t.Errorf("unexpected first chunk %q", chunks[0].Content)
	}
	if chunks[1].Content != "Segunda pagina." {
		t.Errorf("unexpected second chunk %q", chunks[1].Content)
	}
	for _, c := range chunks {
		if c.FileType != domain.FileTypeTeX || c.Source != "gauss.tex" || c.Category != domain.CategoryCampoElectrico {
			t.Errorf("metadata not carried: %+v", c)
		}
		if c.ID != "" {
			t.Errorf("segmenter must not assign ids, got %q", c.ID)
		}
	}
}

func TestSegment_ProblemHeadingsSplit(t *testing.T) {
	text := "Preambulo\n## Problema 1\nEnunciado uno\n## Problema 2\nEnunciado dos"

	chunks := New().Segment(text, texDoc())

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[1].Content != "1\nEnunciado uno" {
		t.Errorf("unexpected problem chunk %q", chunks[1].Content)
	}
}

func TestSegment_PDFPages(t *testing.T) {
	text := "\n--- Pagina 1 ---\nLey de Ohm\n\n--- Pagina 3 ---\nKirchhoff\n"

	chunks := New().Segment(text, pdfDoc())

	if !equal(numbers(chunks), []string{"0", "1"}) {
		t.Fatalf("unexpected chunk numbers %v", numbers(chunks))
	}
	if chunks[0].Content != "Ley de Ohm" || chunks[1].Content != "Kirchhoff" {
		t.Errorf("page markers not stripped: %q, %q", chunks[0].Content, chunks[1].Content)
	}
}

func TestSegment_SinglePageOverBudget(t *testing.T) {
	para1 := strings.Repeat("a", 1500)
	para2 := strings.Repeat("b", 1000)
	text := "\n--- Pagina 1 ---\n" + para1 + "\n\n" + para2 + "\n"

	chunks := New(WithChunkSize(2000)).Segment(text, pdfDoc())

	if !equal(numbers(chunks), []string{"0_0", "0_1"}) {
		t.Fatalf("unexpected chunk numbers %v", numbers(chunks))
	}
	if chunks[0].Content != para1 || chunks[1].Content != para2 {
		t.Error("paragraphs not packed one per chunk")
	}
}

func TestSegment_GreedyPacking(t *testing.T) {
	// Each paragraph adds 32 to the buffer. After three it holds 96 and 96+30 >= 100.
	para := strings.Repeat("x", 30)
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	chunks := New(WithChunkSize(100)).Segment(text, texDoc())

	if !equal(numbers(chunks), []string{"0_0", "0_1"}) {
		t.Fatalf("unexpected chunk numbers %v", numbers(chunks))
	}
	want := para + "\n\n" + para + "\n\n" + para
	if chunks[0].Content != want {
		t.Errorf("expected three paragraphs in first chunk, got %d chars", len(chunks[0].Content))
	}
	if chunks[1].Content != para {
		t.Errorf("unexpected tail chunk %q", chunks[1].Content)
	}
}

func TestSegment_OversizedParagraphKeptWhole(t *testing.T) {
	big := strings.Repeat("z", 250)
	text := "corto\n\n" + big + "\n\nfinal"

	chunks := New(WithChunkSize(100)).Segment(text, texDoc())

	if !equal(numbers(chunks), []string{"0_0", "0_1", "0_2"}) {
		t.Fatalf("unexpected chunk numbers %v", numbers(chunks))
	}
	if chunks[1].Content != big {
		t.Error("oversized paragraph must be emitted as one chunk")
	}
}

func TestSegment_UnitAtBudgetIsSingleChunk(t *testing.T) {
	text := strings.Repeat("c", 100)

	chunks := New(WithChunkSize(100)).Segment(text, texDoc())

	if !equal(numbers(chunks), []string{"0"}) {
		t.Fatalf("unexpected chunk numbers %v", numbers(chunks))
	}
}

func TestSegment_CountsCharactersNotBytes(t *testing.T) {
	// 60 two-byte runes: 120 bytes but 60 characters.
	text := strings.Repeat("é", 60)

	chunks := New(WithChunkSize(100)).Segment(text, texDoc())

	if len(chunks) != 1 || chunks[0].ChunkNumber != "0" {
		t.Fatalf("expected one whole chunk, got %v", numbers(chunks))
	}
	if utf8.RuneCountInString(chunks[0].Content) != 60 {
		t.Error("content altered")
	}
}

func TestSegment_NoEmptyChunks(t *testing.T) {
	text := "a\n\n\n\n\n\nb\n\n   \n\nc" + strings.Repeat("d", 50)

	for _, c := range New(WithChunkSize(10)).Segment(text, texDoc()) {
		if strings.TrimSpace(c.Content) == "" {
			t.Errorf("empty chunk %s", c.ChunkNumber)
		}
	}
}

func TestSegment_Deterministic(t *testing.T) {
	text := "uno\n\n---NUEVA PAGINA---\n" + strings.Repeat("p\n\n", 40)
	p := New(WithChunkSize(20))

	first := p.Segment(text, texDoc())
	second := p.Segment(text, texDoc())

	if len(first) != len(second) {
		t.Fatal("non deterministic chunk count")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs", i)
		}
	}
}

func TestUnits_KeepsLeadingEmDash(t *testing.T) {
	text := "Intro page.\n---NUEVA PAGINA---\n---Cuanto vale el campo? ---pregunto el alumno.\nSegunda linea." +
		"\n---NUEVA PAGINA---\n---Solo una linea con raya.\n--- Pagina 3 ---\n---"
	want := []string{
		"Intro page.",
		"---Cuanto vale el campo? ---pregunto el alumno.\nSegunda linea.",
		"---Solo una linea con raya.",
		"---",
	}

	if units := Units(text); !equal(units, want) {
		t.Errorf("Units() = %q, want %q", units, want)
	}
}

func TestSegment_ReconstructsContent(t *testing.T) {
	text := "---Que es el flujo?\n\nEl flujo electrico mide las lineas de campo.\n" +
		"---NUEVA PAGINA---\n---Solo una linea con raya.\n" +
		"## Problema 1\n---Calcule la carga encerrada.\n\n" + strings.Repeat("Ley de Gauss. ", 10)
	sentinels := strings.NewReplacer("---NUEVA PAGINA---", "", "## Problema", "")

	for _, size := range []int{20, 80, 2000} {
		var got strings.Builder
		for _, c := range New(WithChunkSize(size)).Segment(text, texDoc()) {
			got.WriteString(c.Content)
		}
		if stripSpace(got.String()) != stripSpace(sentinels.Replace(text)) {
			t.Errorf("chunk_size %d: chunks do not reconstruct the text\ngot:  %q", size, got.String())
		}
	}
}

// stripSpace removes every whitespace rune.
func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
