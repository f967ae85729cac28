package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

func sampleResults() []domain.RetrievalResult {
	meta := func(source, display, number string) domain.ChunkMetadata {
		return domain.ChunkMetadata{Source: source, CategoryDisplay: display, ChunkNumber: number}
	}
	return []domain.RetrievalResult{
		{ID: "doc_0", Content: "Ley de Coulomb", Metadata: meta("coulomb.tex", "Campo Electrico", "0"), Distance: 0.10},
		{ID: "doc_5", Content: "Ley de Ampere", Metadata: meta("ampere.pdf", "Campo Magnetico", "1_0"), Distance: 0.25},
		{ID: "doc_9", Content: "Fasores", Metadata: meta("fasores.tex", "Circuitos en Corriente Alterna", "2"), Distance: 0.40},
	}
}

func TestNewResultList(t *testing.T) {
	l := NewResultList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.Equal(t, 0, l.Selected())
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.Init())
	assert.Nil(t, l.SelectedResult())
}

func TestResultList_SetResultsResetsSelection(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())
	l.MoveDown()

	l.SetResults(sampleResults()[:2])

	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 0, l.Selected())
}

func TestResultList_Navigation(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())

	l.MoveDown()
	assert.Equal(t, 2, l.Selected())
	assert.Equal(t, "doc_9", l.SelectedResult().ID)

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, l.Selected())
}

func TestResultList_SetSelected(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())

	l.SetSelected(2)
	assert.Equal(t, 2, l.Selected())

	l.SetSelected(7)
	assert.Equal(t, 2, l.Selected())

	l.SetSelected(-1)
	assert.Equal(t, 2, l.Selected())
}

func TestResultList_View(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Contains(t, NewResultList(nil).View(), "Sin resultados")
	})

	t.Run("shows provenance and distance", func(t *testing.T) {
		l := NewResultList(nil)
		l.SetDimensions(100, 30)
		l.SetResults(sampleResults())

		view := l.View()

		assert.Contains(t, view, "Resultados (3)")
		assert.Contains(t, view, "coulomb.tex")
		assert.Contains(t, view, "Campo Magnetico")
		assert.Contains(t, view, "fragmento 1_0")
		assert.Contains(t, view, "0.100")
	})

	t.Run("scrolls to keep selection visible", func(t *testing.T) {
		l := NewResultList(nil)
		l.SetDimensions(100, 7)
		l.SetResults(sampleResults())
		l.SetSelected(2)

		view := l.View()

		assert.Contains(t, view, "fasores.tex")
		assert.NotContains(t, view, "coulomb.tex")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 20))

	long := strings.Repeat("ñ", 30)
	got := truncate(long, 12)
	assert.Equal(t, strings.Repeat("ñ", 9)+"...", got)

	assert.Equal(t, 10, len([]rune(truncate(long, 2))))
}
