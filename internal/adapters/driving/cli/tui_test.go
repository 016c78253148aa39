package cli

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/adapters/driving/tui"
	"github.com/custodia-labs/verdict/internal/core/domain"
)

func stubProgram(t *testing.T, run func(tea.Model) error) {
	t.Helper()
	original := programRunner
	programRunner = run
	t.Cleanup(func() { programRunner = original })
}

func TestTUICmd_Metadata(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
	assert.NotEmpty(t, tuiCmd.Short)
	assert.Contains(t, tuiCmd.Long, "Open chunk")
}

func TestTUICmd_LaunchesApp(t *testing.T) {
	_, cleanup := setupTestServicesWith()
	defer cleanup()

	var launched tea.Model
	stubProgram(t, func(m tea.Model) error {
		launched = m
		return nil
	})

	_, err := execute(t, "tui")

	require.NoError(t, err)
	app, ok := launched.(*tui.App)
	require.True(t, ok)
	assert.NotNil(t, app)
}

func TestTUICmd_ProgramError(t *testing.T) {
	_, cleanup := setupTestServicesWith()
	defer cleanup()
	stubProgram(t, func(tea.Model) error { return errors.New("no tty") })

	_, err := execute(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI error: no tty")
}

func TestTUICmd_Unavailable(t *testing.T) {
	original := services
	defer func() { services = original }()
	services = &Services{Settings: newMockSettingsService(), Unavailable: fmt.Errorf("%w: bad timeout", domain.ErrConfiguration)}
	stubProgram(t, func(tea.Model) error {
		t.Fatal("program must not start")
		return nil
	})

	_, err := execute(t, "tui")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestTUICmd_RecoversPanic(t *testing.T) {
	_, cleanup := setupTestServicesWith()
	defer cleanup()
	stubProgram(t, func(tea.Model) error { panic("boom") })

	_, err := execute(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI panic: boom")
}
