package main

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo_Text(t *testing.T) {
	resetFlags(t)

	output, err := captureOutput(t, runDemo)
	require.NoError(t, err)

	assertContains(t, output, []string{
		"malloc(100)",
		"FreeList: [offset:0,size:280]\n",
		"FreeList: [offset:280,size:144]\n",
		"FreeList: [offset:280,size:48]\n",
		"reused released block: true",
		"heap grew: false",
		"HeapSize:\t504 bytes",
		"# mallocs:\t3",
		"# frees:\t1",
	})
}

func TestDemo_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true

	output, err := captureOutput(t, runDemo)
	require.NoError(t, err)
	assertJSON(t, output)

	var res demoResult
	require.NoError(t, json.Unmarshal([]byte(output), &res))
	require.Len(t, res.Steps, 4)
	assert.Equal(t, "free", res.Steps[2].Op)
	assert.Empty(t, res.Steps[2].Ptr)
	assert.Empty(t, res.Steps[1].FreeList, "200-byte request claims the remainder whole")
	assert.NotNil(t, res.Steps[1].FreeList)
	assert.True(t, res.Reused)
	assert.False(t, res.Grew)
	assert.Equal(t, uint64(3), res.Summary.Mallocs)
}

func TestDemo_LargeArena(t *testing.T) {
	resetFlags(t)
	extentSize = 1 << 16

	output, err := captureOutput(t, runDemo)
	require.NoError(t, err)

	// High-end splitting serves the last request from the large low block.
	assertContains(t, output, []string{
		"reused released block: false",
		"heap grew: false",
	})
}

func TestDemo_Quiet(t *testing.T) {
	resetFlags(t)
	quiet = true

	output, err := captureOutput(t, runDemo)
	require.NoError(t, err)
	assert.Empty(t, output)
}

func TestDemo_WriteErrorIsReturned(t *testing.T) {
	resetFlags(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, w.Close())

	orig := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = orig })

	err = runDemo()
	os.Stdout = orig
	require.Error(t, err)
	assert.Contains(t, err.Error(), "print free list")
}

func TestDemo_HelpExplainsSmallExtent(t *testing.T) {
	cmd := newDemoCmd()
	assert.Contains(t, cmd.Long, "504-byte extent by default")
}
