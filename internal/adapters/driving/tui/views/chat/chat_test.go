package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// mockAssistant implements driving.AssistantService for testing.
type mockAssistant struct {
	available bool
	answer    *domain.Answer
	err       error

	calls    int
	question string
	history  []domain.Turn
	category string
}

func (m *mockAssistant) Ask(
	_ context.Context,
	question string,
	history []domain.Turn,
	categoryFilter string,
) (*domain.Answer, error) {
	m.calls++
	m.question, m.history, m.category = question, history, categoryFilter
	return m.answer, m.err
}

func (m *mockAssistant) Available() bool {
	return m.available
}

func gaussAnswer() *domain.Answer {
	return &domain.Answer{
		Text: "El flujo electrico total es la carga encerrada sobre epsilon cero.",
		Sources: []domain.RetrievalResult{
			{ID: "doc_2", Metadata: domain.ChunkMetadata{Source: "gauss.tex"}},
			{ID: "doc_3", Metadata: domain.ChunkMetadata{Source: "gauss.tex"}},
			{ID: "doc_8", Metadata: domain.ChunkMetadata{Source: "flujo.pdf"}},
		},
	}
}

func newTestView(a *mockAssistant) *View {
	v := NewView(nil, nil, a)
	v.SetDimensions(120, 40)
	return v
}

func press(v *View, t tea.KeyType) (*View, tea.Cmd) {
	return v.Update(tea.KeyMsg{Type: t})
}

// ask types a question, sends it and delivers the answer.
func ask(t *testing.T, v *View, question string) *View {
	t.Helper()
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(question)})
	v, cmd := press(v, tea.KeyEnter)
	require.NotNil(t, cmd)
	require.True(t, v.Pending())
	v, _ = v.Update(cmd())
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.False(t, v.Available())
	assert.Equal(t, "todos", v.Category())
	assert.Equal(t, "Initialising...", v.View())
	assert.NotNil(t, v.Init())
}

func TestView_AskShowsAnswerAndSources(t *testing.T) {
	a := &mockAssistant{available: true, answer: gaussAnswer()}
	v := newTestView(a)

	v = ask(t, v, "Que es la ley de Gauss?")

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, "Que es la ley de Gauss?", a.question)
	assert.Empty(t, a.history)
	assert.Equal(t, "todos", a.category)
	assert.False(t, v.Pending())

	view := v.View()
	assert.Contains(t, view, "Que es la ley de Gauss?")
	assert.Contains(t, view, "carga encerrada")
	assert.Contains(t, view, "Fuentes: gauss.tex, flujo.pdf")
}

func TestView_FollowUpCarriesHistory(t *testing.T) {
	a := &mockAssistant{available: true, answer: gaussAnswer()}
	v := newTestView(a)
	v = ask(t, v, "Que es la ley de Gauss?")

	v, _ = press(v, tea.KeyTab)
	ask(t, v, "Y para un cilindro?")

	require.Len(t, a.history, 2)
	assert.Equal(t, domain.RoleUser, a.history[0].Role)
	assert.Equal(t, "Que es la ley de Gauss?", a.history[0].Content)
	assert.Equal(t, domain.RoleAssistant, a.history[1].Role)
	assert.Equal(t, "campo_electrico", a.category)
}

func TestView_EnterIgnoredWhilePendingOrEmpty(t *testing.T) {
	a := &mockAssistant{available: true, answer: gaussAnswer()}
	v := newTestView(a)

	_, cmd := press(v, tea.KeyEnter)
	assert.Nil(t, cmd)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("primera")})
	v, cmd = press(v, tea.KeyEnter)
	require.NotNil(t, cmd)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("segunda")})
	_, second := press(v, tea.KeyEnter)
	assert.Nil(t, second)
}

func TestView_Unavailable(t *testing.T) {
	a := &mockAssistant{available: false}
	v := newTestView(a)
	assert.Contains(t, v.View(), "electro settings llm")

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hola")})
	_, cmd := press(v, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, 0, a.calls)
}

func TestView_FailedAnswerIsShownButNotRemembered(t *testing.T) {
	a := &mockAssistant{available: true, err: errors.New("overloaded")}
	v := newTestView(a)

	v = ask(t, v, "Que es un transformador?")

	assert.Contains(t, v.View(), "overloaded")
	assert.Empty(t, v.History())

	a.err, a.answer = nil, gaussAnswer()
	v = ask(t, v, "Que es la ley de Gauss?")
	assert.Empty(t, a.history)
	assert.Len(t, v.History(), 2)
}

func TestView_ClearDropsConversationAndLateAnswer(t *testing.T) {
	a := &mockAssistant{available: true, answer: gaussAnswer()}
	v := newTestView(a)
	v = ask(t, v, "Que es la ley de Gauss?")

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("otra")})
	v, cmd := press(v, tea.KeyEnter)
	require.NotNil(t, cmd)

	v, _ = press(v, tea.KeyCtrlL)
	v, _ = v.Update(cmd())

	assert.Empty(t, v.History())
	assert.False(t, v.Pending())
	assert.NotContains(t, v.View(), "carga encerrada")
	assert.Contains(t, v.View(), "Conversacion nueva")
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := newTestView(&mockAssistant{})

	_, cmd := press(v, tea.KeyEsc)

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestSourceLine(t *testing.T) {
	tests := []struct {
		name    string
		sources []domain.RetrievalResult
		want    string
	}{
		{"none", nil, ""},
		{"dedupes in rank order", gaussAnswer().Sources, "Fuentes: gauss.tex, flujo.pdf"},
		{"skips blank", []domain.RetrievalResult{{ID: "doc_1"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sourceLine(tt.sources))
		})
	}
}
