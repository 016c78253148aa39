// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict/internal/core/domain"
)

// ChunkList displays retrieved chunks in a navigable list.
type ChunkList struct {
	title    string
	chunks   []domain.RetrievedChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewChunkList creates a list headed by title, e.g. "Sources".
func NewChunkList(s *styles.Styles, title string) *ChunkList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ChunkList{
		title:  title,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *ChunkList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation.
func (l *ChunkList) Update(msg tea.Msg) (*ChunkList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *ChunkList) View() string {
	if len(l.chunks) == 0 {
		return l.styles.Muted.Render("No chunks")
	}

	lines := make([]string, 0, len(l.chunks)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.chunks))), "")

	// Each entry takes two lines.
	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.chunks))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderChunk(i, l.chunks[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *ChunkList) renderChunk(index int, rc domain.RetrievedChunk) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%s[%d] %s", indicator, index+1, rc.Chunk.ID)
	distance := fmt.Sprintf("%.4f", rc.Distance)

	var headLine string
	if index == l.selected {
		headLine = l.styles.Selected.Render(head + "  " + distance)
	} else {
		headLine = l.styles.Citation.Render(head) + "  " + l.styles.Muted.Render(distance)
	}

	return headLine + "\n" + l.styles.Muted.Render("    "+Preview(rc.Chunk.Content, l.width-6))
}

// Preview flattens content to one line of at most width runes.
func Preview(content string, width int) string {
	if width < 20 {
		width = 20
	}
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= width {
		return flat
	}
	return string(runes[:width-3]) + "..."
}

// SetChunks replaces the list contents and resets the selection.
func (l *ChunkList) SetChunks(chunks []domain.RetrievedChunk) {
	l.chunks = chunks
	l.selected = 0
}

// Chunks returns the current chunks.
func (l *ChunkList) Chunks() []domain.RetrievedChunk {
	return l.chunks
}

// Selected returns the index of the selected chunk.
func (l *ChunkList) Selected() int {
	return l.selected
}

// SelectedChunk returns the selected chunk, or nil if the list is empty.
func (l *ChunkList) SelectedChunk() *domain.RetrievedChunk {
	if l.selected < 0 || l.selected >= len(l.chunks) {
		return nil
	}
	return &l.chunks[l.selected]
}

// MoveUp moves selection up.
func (l *ChunkList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ChunkList) MoveDown() {
	if l.selected < len(l.chunks)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ChunkList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of chunks.
func (l *ChunkList) Count() int {
	return len(l.chunks)
}
