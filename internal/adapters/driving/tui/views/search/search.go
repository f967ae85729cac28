// Package search provides the excerpt search view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/components/filter"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
)

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Prompt
	list      *list.ResultList
	statusbar *status.Bar
	category  *filter.Category

	retrieval driving.RetrievalService
	k         int
	ctx       context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)
	expanded   bool // show the full text of the selected excerpt
}

// NewView creates a new search view. k is the number of excerpts to
// request; zero lets the service decide.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	k int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		category:   filter.NewCategory(),
		retrieval:  retrieval,
		k:          k,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
	v.statusbar.SetFilter(v.category.Label())
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

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc closes the detail pane first, then returns to the menu.
	if msg.Type == tea.KeyEsc {
		if v.expanded {
			v.expanded = false
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if msg.Type == tea.KeyTab {
		v.category.Next()
		v.statusbar.SetFilter(v.category.Label())
		if q := strings.TrimSpace(v.input.Value()); q != "" && !v.focusInput {
			v.statusbar.SetState(status.StateSearching)
			return v, v.performSearch(q)
		}
		return v, nil
	}

	if msg.Type == tea.KeyEnter && v.focusInput {
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.statusbar.SetState(status.StateSearching)
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(query)
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Results mode
	if msg.Type == tea.KeyEnter {
		v.expanded = !v.expanded && v.list.SelectedResult() != nil
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
	case "n":
		v.focusInput = true
		v.expanded = false
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	return v, nil
}

// performSearch runs retrieval for the query under the current filter.
func (v *View) performSearch(query string) tea.Cmd {
	category := v.category.Value()
	return func() tea.Msg {
		if v.retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}

		results, err := v.retrieval.Retrieve(v.ctx, query, v.k, category)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.expanded = false
	v.list.SetResults(msg.Results)
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))

	v.focusInput = false
	v.input.Blur()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Electro · Buscar material"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if r := v.list.SelectedResult(); v.expanded && r != nil {
		sections = append(sections, v.renderDetail(r))
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDetail renders the full text of one excerpt.
func (v *View) renderDetail(r *domain.RetrievalResult) string {
	header := v.styles.Subtitle.Render(r.Metadata.Source) + "  " +
		v.styles.Muted.Render(r.Metadata.CategoryDisplay+" · "+r.ID)
	body := lipgloss.NewStyle().Width(v.width - 4).Render(r.Content)
	return v.styles.Border.Padding(0, 1).Render(header + "\n\n" + body)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Category returns the active category filter.
func (v *View) Category() string {
	return v.category.Value()
}

// Results returns the current search results.
func (v *View) Results() []domain.RetrievalResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Expanded returns whether the detail pane is open.
func (v *View) Expanded() bool {
	return v.expanded
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial input mode. The category filter is kept.
func (v *View) Reset() {
	v.focusInput = true
	v.expanded = false
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
