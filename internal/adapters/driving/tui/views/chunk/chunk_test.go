package chunk

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict/internal/core/domain"
)

func footnote(content string) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Chunk: domain.Chunk{
			ID:       "Act B-footnote-0",
			ActTitle: "Act B",
			Type:     domain.ChunkTypeFootnote,
			Content:  content,
		},
		Distance: 0.25,
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.Nil(t, v.Chunk())
	assert.Equal(t, messages.ViewMenu, v.Back())
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No chunk selected")
}

func TestView_ShowsChunk(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(100, 30)

	v.SetChunk(footnote("Negligence is a common tort."), messages.ViewAsk)

	view := v.View()
	assert.Contains(t, view, "Act B")
	assert.Contains(t, view, "Act B-footnote-0")
	assert.Contains(t, view, "Footnote")
	assert.Contains(t, view, "0.2500")
	assert.Contains(t, view, "Negligence is a common tort.")
}

func TestView_EscReturnsToOrigin(t *testing.T) {
	for _, back := range []messages.ViewType{messages.ViewAsk, messages.ViewRetrieve} {
		t.Run(back.String(), func(t *testing.T) {
			v := NewView(nil)
			v.SetChunk(footnote("x"), back)

			_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

			require.NotNil(t, cmd)
			assert.Equal(t, messages.ViewChanged{View: back}, cmd())
		})
	}
}

func TestView_Scrolling(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(80, 12)
	v.SetChunk(footnote(strings.Repeat("line of statute text\n", 50)), messages.ViewRetrieve)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.viewport.YOffset)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.True(t, v.viewport.AtBottom())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.True(t, v.viewport.AtTop())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil)

	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 116, v.viewport.Width)
	assert.Equal(t, 40-reserved, v.viewport.Height)
}
