package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
	assert.Equal(t, "p", flag.Shorthand)
}

func TestMCPServeCmd_Unavailable(t *testing.T) {
	original := services
	defer func() { services = original }()
	services = &Services{Settings: newMockSettingsService(), Unavailable: fmt.Errorf("%w: bad timeout", domain.ErrConfiguration)}

	_, err := execute(t, "mcp", "serve")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
