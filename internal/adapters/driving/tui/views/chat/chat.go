// Package chat provides the conversational assistant view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/components/filter"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
)

// ErrNoAssistant indicates the view was created without a usable assistant.
var ErrNoAssistant = errors.New("no LLM configured; run 'electro settings llm'")

// entry is one rendered line of the transcript.
type entry struct {
	role    domain.Role
	content string
	sources []domain.RetrievalResult
	failed  bool
}

// View is the chat transcript with a question input underneath.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.Prompt
	transcript viewport.Model
	statusbar  *status.Bar
	category   *filter.Category

	assistant driving.AssistantService
	ctx       context.Context

	entries []entry
	pending bool

	width  int
	height int
	ready  bool
}

// NewView creates a chat view backed by the given assistant.
func NewView(s *styles.Styles, km *keymap.KeyMap, assistant driving.AssistantService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: viewport.New(80, 16),
		statusbar:  status.NewBar(s, km),
		category:   filter.NewCategory(),
		assistant:  assistant,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	v.statusbar.SetMode(status.ModeChat)
	v.statusbar.SetFilter(v.category.Label())
	v.refresh()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.Category):
		v.category.Next()
		v.statusbar.SetFilter(v.category.Label())
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Clear):
		v.Clear()
		v.statusbar.SetMessage("Conversacion nueva")
		return v, nil

	case msg.Type == tea.KeyEnter:
		return v, v.send()
	}

	//nolint:exhaustive // only scrolling keys are intercepted
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send asks the current question. It returns nil when nothing is sent.
func (v *View) send() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.pending {
		return nil
	}
	if !v.Available() {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(ErrNoAssistant.Error())
		return nil
	}

	history := v.History()
	category := v.category.Value()

	v.entries = append(v.entries, entry{role: domain.RoleUser, content: question})
	v.pending = true
	v.input.Reset()
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateThinking)
	v.refresh()

	return func() tea.Msg {
		answer, err := v.assistant.Ask(v.ctx, question, history, category)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	// A clear while waiting drops the late answer.
	if !v.pending {
		return
	}
	v.pending = false

	if msg.Err != nil || msg.Answer == nil {
		err := msg.Err
		if err == nil {
			err = errors.New("empty answer")
		}
		v.entries = append(v.entries, entry{role: domain.RoleAssistant, content: err.Error(), failed: true})
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
		v.refresh()
		return
	}

	v.entries = append(v.entries, entry{
		role:    domain.RoleAssistant,
		content: msg.Answer.Text,
		sources: msg.Answer.Sources,
	})
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	v.refresh()
}

// History returns the answered turns of the conversation, oldest first.
// Questions whose answer failed are left out.
func (v *View) History() []domain.Turn {
	turns := make([]domain.Turn, 0, len(v.entries))
	for i := 0; i+1 < len(v.entries); i++ {
		q, a := v.entries[i], v.entries[i+1]
		if q.role != domain.RoleUser || a.role != domain.RoleAssistant {
			continue
		}
		if !a.failed {
			turns = append(turns,
				domain.Turn{Role: domain.RoleUser, Content: q.content},
				domain.Turn{Role: domain.RoleAssistant, Content: a.content},
			)
		}
		i++
	}
	return turns
}

// Clear forgets the conversation. The category filter is kept.
func (v *View) Clear() {
	v.entries = nil
	v.pending = false
	v.input.Reset()
	v.statusbar.Clear()
	v.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(v.width - 4)

	if len(v.entries) == 0 {
		intro := "Pregunta lo que quieras sobre campos, circuitos o maquinas electricas."
		if !v.Available() {
			intro = ErrNoAssistant.Error()
		}
		return v.styles.Muted.Render(wrap.Render(intro))
	}

	blocks := make([]string, 0, len(v.entries)+1)
	for _, e := range v.entries {
		switch {
		case e.role == domain.RoleUser:
			blocks = append(blocks, v.styles.UserLabel.Render("Tu")+"\n"+wrap.Render(e.content))
		case e.failed:
			blocks = append(blocks, v.styles.Error.Render("Error: "+e.content))
		default:
			block := v.styles.AssistantLabel.Render("Electro") + "\n" + wrap.Render(e.content)
			if src := sourceLine(e.sources); src != "" {
				block += "\n" + v.styles.Muted.Render(wrap.Render(src))
			}
			blocks = append(blocks, block)
		}
	}
	if v.pending {
		blocks = append(blocks, v.styles.Muted.Render("..."))
	}
	return strings.Join(blocks, "\n\n")
}

// sourceLine lists the distinct source files of an answer in rank order.
func sourceLine(sources []domain.RetrievalResult) string {
	seen := make(map[string]bool, len(sources))
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		name := s.Metadata.Source
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	return "Fuentes: " + strings.Join(names, ", ")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Electro · Asistente de electromagnetismo"),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.transcript.Width = width
	v.transcript.Height = max(height-8, 3) // title, input, status
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Available reports whether questions can be sent.
func (v *View) Available() bool {
	return v.assistant != nil && v.assistant.Available()
}

// Pending reports whether a question is awaiting its answer.
func (v *View) Pending() bool {
	return v.pending
}

// Category returns the active category filter.
func (v *View) Category() string {
	return v.category.Value()
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
