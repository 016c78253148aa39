package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/views/chunk"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/verdict/internal/adapters/driving/tui/views/retrieve"
)

// App is the main TUI application following the Elm architecture.
type App struct {
	ports  *Ports
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	askView      *ask.View
	retrieveView *retrieve.View
	chunkView    *chunk.View

	currentView messages.ViewType
	err         error
	width       int
	height      int
	ready       bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		askView:      ask.NewView(s, km, ports.Answer, ports.TopK),
		retrieveView: retrieve.NewView(s, km, ports.Retrieval, ports.TopK),
		chunkView:    chunk.NewView(s),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.askView.WithContext(ctx)
	a.retrieveView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("verdict - legal assistant")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		from := a.currentView
		a.currentView = msg.View
		// Coming back from a chunk keeps the answer or results on screen.
		if from != messages.ViewMenu {
			return a, nil
		}
		switch msg.View {
		case messages.ViewAsk:
			a.askView.Reset()
			return a, a.askView.Init()
		case messages.ViewRetrieve:
			a.retrieveView.Reset()
			return a, a.retrieveView.Init()
		case messages.ViewMenu, messages.ViewChunk, messages.ViewHelp:
		}
		return a, nil

	case messages.ChunkSelected:
		a.chunkView.SetChunk(msg.Chunk, msg.Back)
		a.currentView = messages.ViewChunk
		return a, nil

	// Results reach their view even after the user navigated away.
	case messages.AnswerReceived:
		a.err = msg.Err
		a.askView, cmd = a.askView.Update(msg)
		return a, cmd

	case messages.RetrievalCompleted:
		a.err = msg.Err
		a.retrieveView, cmd = a.retrieveView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward hands msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewRetrieve:
		a.retrieveView, cmd = a.retrieveView.Update(msg)
	case messages.ViewChunk:
		a.chunkView, cmd = a.chunkView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewRetrieve:
		return a.retrieveView.View()
	case messages.ViewChunk:
		return a.chunkView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("Answers cite the chunks they were grounded on; open one to read it in full."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.retrieveView.SetDimensions(width, height)
	a.chunkView.SetDimensions(width, height)
}
