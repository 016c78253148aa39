// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict/internal/core/domain"
	"github.com/custodia-labs/verdict/internal/core/ports/driving"
)

// ErrNoAnswerService indicates that no answer service was provided.
var ErrNoAnswerService = errors.New("answer service is required")

// View takes a question, shows the answer and lists the chunks it was
// grounded on.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	answer    viewport.Model
	sources   *list.ChunkList
	statusbar *status.Bar

	service driving.AnswerService
	topK    int
	ctx     context.Context

	result     *domain.Answer
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new ask view. A topK of zero uses the service default.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.AnswerService, topK int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s, "Ask", "What is a tort?"),
		answer:     viewport.New(76, 8),
		sources:    list.NewChunkList(s, "Sources"),
		statusbar:  status.NewBar(s, km),
		service:    service,
		topK:       topK,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
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

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Open):
		if rc := v.sources.SelectedChunk(); rc != nil {
			selected := *rc
			return v, func() tea.Msg {
				return messages.ChunkSelected{Chunk: selected, Back: messages.ViewAsk}
			}
		}
	case keymap.Matches(key, v.keymap.Up):
		v.sources.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.sources.MoveDown()
	case keymap.Matches(key, v.keymap.PageUp), keymap.Matches(key, v.keymap.PageDown):
		var cmd tea.Cmd
		v.answer, cmd = v.answer.Update(msg)
		return v, cmd
	case keymap.Matches(key, v.keymap.NewQuery):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// submit starts an ask for the typed question.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" {
		return nil
	}

	v.err = nil
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateWorking)
	v.statusbar.SetMessage("Thinking...")

	service, ctx, topK := v.service, v.ctx, v.topK
	return func() tea.Msg {
		if service == nil {
			return messages.AnswerReceived{Query: question, Err: ErrNoAnswerService}
		}
		answer, err := service.Ask(ctx, question, topK)
		return messages.AnswerReceived{Query: question, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	if msg.Err != nil {
		v.setError(msg.Err)
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.result = msg.Answer
	v.renderAnswer()
	v.sources.SetChunks(msg.Answer.Sources)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetCount(len(msg.Answer.Sources))
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// renderAnswer wraps the answer text to the viewport width.
func (v *View) renderAnswer() {
	if v.result == nil {
		v.answer.SetContent("")
		return
	}
	wrapped := lipgloss.NewStyle().Width(v.answer.Width).Render(v.result.Text)
	v.answer.SetContent(wrapped)
	v.answer.GotoTop()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Verdict"), "",
		v.input.View(), "",
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.result != nil {
		sections = append(sections,
			v.styles.Answer.Render(v.answer.View()),
			v.styles.Muted.Render(fmt.Sprintf("  %3.f%%", v.answer.ScrollPercent()*100)),
			"",
			v.sources.View(),
		)
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions splits the height between the answer and its sources.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	body := max(height-10, 4)
	v.input.SetWidth(width)
	v.answer.Width = max(width-4, 20)
	v.answer.Height = max(body/2, 2)
	v.sources.SetDimensions(width, body-v.answer.Height)
	v.statusbar.SetWidth(width)
	v.renderAnswer()
}

// Reset returns the view to an empty question.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.result = nil
	v.err = nil
	v.sources.SetChunks(nil)
	v.answer.SetContent("")
	v.statusbar.Clear()
}

// Answer returns the last answer, if any.
func (v *View) Answer() *domain.Answer {
	return v.result
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the question input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
