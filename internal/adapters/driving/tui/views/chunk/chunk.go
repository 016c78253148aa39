// Package chunk provides the full chunk view for the TUI.
package chunk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict/internal/core/domain"
)

// reserved is the number of lines taken by the header and footer.
const reserved = 7

// View shows one retrieved chunk in a scrollable viewport.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model

	chunk  *domain.RetrievedChunk
	back   messages.ViewType
	width  int
	height int
}

// NewView creates a new chunk view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		viewport: viewport.New(76, 17),
		back:     messages.ViewMenu,
		width:    80,
		height:   24,
	}
}

// SetChunk shows rc; esc returns to back.
func (v *View) SetChunk(rc domain.RetrievedChunk, back messages.ViewType) {
	v.chunk = &rc
	v.back = back
	v.render()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles scrolling and navigation.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			back := v.back
			return v, func() tea.Msg {
				return messages.ViewChanged{View: back}
			}
		case "g", "home":
			v.viewport.GotoTop()
			return v, nil
		case "G", "end":
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) render() {
	if v.chunk == nil {
		v.viewport.SetContent("")
		return
	}
	wrapped := lipgloss.NewStyle().Width(v.viewport.Width).Render(v.chunk.Chunk.Content)
	v.viewport.SetContent(wrapped)
	v.viewport.GotoTop()
}

// View renders the chunk.
func (v *View) View() string {
	var b strings.Builder

	if v.chunk == nil {
		b.WriteString(v.styles.Muted.Render("(No chunk selected)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	c := v.chunk.Chunk
	b.WriteString(v.styles.Title.Render(c.ActTitle))
	b.WriteString("\n")
	b.WriteString(v.styles.Citation.Render(c.ID))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %s  distance %.4f", c.Type.Label(), v.chunk.Distance)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%3.f%%]", v.viewport.ScrollPercent()*100)))
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = max(width-4, 20)
	v.viewport.Height = max(height-reserved, 1)
	v.render()
}

// Chunk returns the chunk being shown.
func (v *View) Chunk() *domain.RetrievedChunk {
	return v.chunk
}

// Back returns the view esc returns to.
func (v *View) Back() messages.ViewType {
	return v.back
}
