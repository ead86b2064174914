package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFailedURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.csv")
	require.NoError(t, WriteFailedURLs(path, []string{
		"https://registry.example.com/vessel/3",
		"https://registry.example.com/vessel?id=4,5",
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "failed_url\nhttps://registry.example.com/vessel/3\n\"https://registry.example.com/vessel?id=4,5\"\n", string(raw))
}

func TestWriteFailedURLs_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.csv")
	require.NoError(t, WriteFailedURLs(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "failed_url\n", string(raw))
}
