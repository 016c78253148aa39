package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryInput(t *testing.T) {
	in := NewQueryInput(nil, "Ask", "What is a tort?")

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
	assert.True(t, in.Focused())
	assert.Equal(t, "", in.Value())
	assert.Equal(t, 50, in.Width())
	assert.NotNil(t, in.Init())
}

func TestQueryInput_TypingUpdatesValue(t *testing.T) {
	in := NewQueryInput(nil, "Ask", "")

	for _, r := range "tort" {
		in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "tort", in.Value())
}

func TestQueryInput_View(t *testing.T) {
	in := NewQueryInput(nil, "Retrieve", "")
	in.SetValue("negligence")

	view := in.View()

	assert.Contains(t, view, "Retrieve:")
	assert.Contains(t, view, "negligence")
}

func TestQueryInput_FocusAndReset(t *testing.T) {
	in := NewQueryInput(nil, "Ask", "")
	in.SetValue("x")

	in.Blur()
	assert.False(t, in.Focused())
	in.Focus()
	assert.True(t, in.Focused())

	in.Reset()
	assert.Equal(t, "", in.Value())
}

func TestQueryInput_SetWidth(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		wantField int
	}{
		{"wide terminal", 100, 100 - len("Ask") - 8},
		{"narrow terminal clamps", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewQueryInput(nil, "Ask", "")
			in.SetWidth(tt.width)

			assert.Equal(t, tt.width, in.Width())
			assert.Equal(t, tt.wantField, in.textinput.Width)
		})
	}
}
