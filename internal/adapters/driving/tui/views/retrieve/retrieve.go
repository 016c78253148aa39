// Package retrieve provides the chunk retrieval view for the TUI.
package retrieve

import (
	"context"
	"errors"
	"strings"

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

// ErrNoRetrievalService indicates that no retrieval service was provided.
var ErrNoRetrievalService = errors.New("retrieval service is required")

// View lists the chunks nearest to a query without generating an answer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ChunkList
	statusbar *status.Bar

	service driving.RetrievalService
	topK    int
	ctx     context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new retrieve view. A topK of zero uses the default.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.RetrievalService, topK int) *View {
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
		input:      input.NewQueryInput(s, "Retrieve", "negligence"),
		list:       list.NewChunkList(s, "Results"),
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

// Update handles messages for the retrieve view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RetrievalCompleted:
		v.handleResults(msg)
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
		if rc := v.list.SelectedChunk(); rc != nil {
			selected := *rc
			return v, func() tea.Msg {
				return messages.ChunkSelected{Chunk: selected, Back: messages.ViewRetrieve}
			}
		}
	case keymap.Matches(key, v.keymap.NewQuery):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	default:
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

func (v *View) submit() tea.Cmd {
	query := strings.TrimSpace(v.input.Value())
	if query == "" {
		return nil
	}

	v.err = nil
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateWorking)
	v.statusbar.SetMessage("Searching...")

	service, ctx, topK := v.service, v.ctx, v.topK
	return func() tea.Msg {
		if service == nil {
			return messages.RetrievalCompleted{Query: query, Err: ErrNoRetrievalService}
		}
		results, err := service.Retrieve(ctx, query, topK)
		return messages.RetrievalCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleResults(msg messages.RetrievalCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.list.SetChunks(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetCount(len(msg.Results))
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the retrieve view.
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
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Reset returns the view to an empty query.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetChunks(nil)
	v.err = nil
	v.statusbar.Clear()
}

// Results returns the listed chunks.
func (v *View) Results() []domain.RetrievedChunk {
	return v.list.Chunks()
}

// SelectedIndex returns the index of the selected chunk.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
