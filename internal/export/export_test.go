package export

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenerWritesStrmFile(t *testing.T) {
	dir := t.TempDir()
	opener := NewOpener(dir, slog.Default())

	opener.Open(MethodStrmFile, "https://stream.example/tokenized")

	content, err := os.ReadFile(filepath.Join(dir, "video-stream.strm"))
	require.NoError(t, err)
	assert.Equal(t, "https://stream.example/tokenized", string(content))
}

func TestOpenerOverwritesPreviousStrmFile(t *testing.T) {
	dir := t.TempDir()
	opener := NewOpener(dir, slog.Default())

	opener.Open(MethodStrmFile, "https://stream.example/first")
	opener.Open(MethodStrmFile, "https://stream.example/second")

	content, err := os.ReadFile(filepath.Join(dir, "video-stream.strm"))
	require.NoError(t, err)
	assert.Equal(t, "https://stream.example/second", string(content))
}

func TestOpenerSwallowsUnknownMethod(t *testing.T) {
	opener := NewOpener(t.TempDir(), slog.Default())

	// must not panic; the failure only reaches the log
	opener.Open("airplay", "https://stream.example/tokenized")
}

func TestOpenerDefaultsToTempDir(t *testing.T) {
	opener := NewOpener("", slog.Default())
	assert.Equal(t, os.TempDir(), opener.strmDir)
}
