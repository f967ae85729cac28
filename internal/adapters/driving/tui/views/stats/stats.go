// Package stats provides the corpus statistics view for the TUI.
package stats

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/electro-agent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
)

// View shows the chunk count of the collection and of every category.
type View struct {
	styles  *styles.Styles
	service driving.StatsService
	ctx     context.Context

	stats   *domain.CollectionStats
	counts  []domain.CategoryCount
	loading bool
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a stats view. A nil service renders a notice.
func NewView(s *styles.Styles, service driving.StatsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the statistics.
func (v *View) Init() tea.Cmd {
	if v.service == nil {
		return nil
	}
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		stats, err := v.service.CollectionStats(v.ctx)
		if err != nil {
			return messages.StatsLoaded{Err: err}
		}
		counts, err := v.service.StatsByCategory(v.ctx)
		return messages.StatsLoaded{Stats: stats, Counts: counts, Err: err}
	}
}

// Update handles messages for the stats view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.StatsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.stats = msg.Stats
			v.counts = msg.Counts
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case "r":
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the statistics.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Electro · Estadisticas"))
	b.WriteString("\n\n")

	switch {
	case v.service == nil:
		b.WriteString(v.styles.Muted.Render("Estadisticas no disponibles"))
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Cargando..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.stats != nil:
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s: %d fragmentos", v.stats.CollectionName, v.stats.TotalChunks)))
		b.WriteString("\n")
		if v.stats.Location != "" {
			b.WriteString(v.styles.Muted.Render(v.stats.Location))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		for _, c := range v.counts {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  %-32s %6d", c.Display, c.Chunks)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[r] Actualizar  [esc] Menu"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Loading reports whether statistics are being fetched.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
