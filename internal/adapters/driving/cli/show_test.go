package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowCmd_Use(t *testing.T) {
	assert.Equal(t, "show [chunk-uuid]", showCmd.Use)
}

func TestShowCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestShowCmd_ByUUID(t *testing.T) {
	_, _, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "show", "a1")

	require.NoError(t, err)
	assert.Contains(t, out, "UUID: a1")
	assert.Contains(t, out, "Chunk 2/2 of docA")
	assert.Contains(t, out, "beta text")
}

func TestShowCmd_Next(t *testing.T) {
	_, _, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { showNext = false }()

	out, err := execute(t, "show", "a0", "--next")

	require.NoError(t, err)
	assert.Contains(t, out, "UUID: a1")
}

func TestShowCmd_Prev(t *testing.T) {
	_, _, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { showPrev = false }()

	out, err := execute(t, "show", "a1", "--prev")

	require.NoError(t, err)
	assert.Contains(t, out, "UUID: a0")
}

func TestShowCmd_NextAndPrevAreExclusive(t *testing.T) {
	_, _, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { showNext, showPrev = false, false }()

	_, err := execute(t, "show", "a0", "--next", "--prev")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestShowCmd_MissingChunk(t *testing.T) {
	_, _, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "show", "nope")

	require.NoError(t, err)
	assert.Contains(t, out, "No such chunk")
}

func TestShowCmd_PrevFromFirstChunk(t *testing.T) {
	_, _, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { showPrev = false }()

	out, err := execute(t, "show", "a0", "--prev")

	require.NoError(t, err)
	assert.Contains(t, out, "No such chunk")
}

func TestShowCmd_JSONOutput(t *testing.T) {
	_, _, cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { showJSON = false }()

	out, err := execute(t, "show", "b0", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, "\"chunk_uuid\": \"b0\"")
	assert.Contains(t, out, "\"source\": \"docB\"")
}
