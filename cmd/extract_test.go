package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChunkFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadChunks_ObjectForm(t *testing.T) {
	path := writeChunkFile(t, "doc.json", `{
		"source": "proposals/city.pdf",
		"chunks": [
			{"text": "chunk one", "page": 1, "chunk_index": 0},
			{"text": "chunk two", "page": 2, "chunk_index": 1}
		]
	}`)

	cf, err := loadChunks(path)
	require.NoError(t, err)
	assert.Equal(t, "proposals/city.pdf", cf.Source)
	require.Len(t, cf.Chunks, 2)
	assert.Equal(t, "chunk one", cf.Chunks[0].Text)
	assert.Equal(t, 2, cf.Chunks[1].Page)
}

func TestLoadChunks_BareArray(t *testing.T) {
	path := writeChunkFile(t, "doc.json", `[
		{"text": "chunk one", "page": 1, "chunk_index": 0}
	]`)

	cf, err := loadChunks(path)
	require.NoError(t, err)
	assert.Equal(t, path, cf.Source, "source defaults to the file path")
	require.Len(t, cf.Chunks, 1)
}

func TestLoadChunks_Errors(t *testing.T) {
	_, err := loadChunks(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := writeChunkFile(t, "empty.json", `{"chunks": []}`)
	_, err = loadChunks(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no chunks")

	path = writeChunkFile(t, "bad.json", `not json`)
	_, err = loadChunks(path)
	require.Error(t, err)
}
