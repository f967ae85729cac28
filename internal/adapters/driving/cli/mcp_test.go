package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	httpFlag := mcpServeCmd.Flags().Lookup("http")
	require.NotNil(t, httpFlag)
	assert.Equal(t, "false", httpFlag.DefValue)
}

func TestMCPServeCmd_Long(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "retrieve")
	assert.Contains(t, mcpServeCmd.Long, "ask")
	assert.Contains(t, mcpServeCmd.Long, "electro mcp serve")
}

func TestMCPServeCmd_RequiresRetrieval(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	retrievalService = nil

	_, err := execute(t, "", "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingRetrievalService)
}
