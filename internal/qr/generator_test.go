package qr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWritesImage(t *testing.T) {
	g := NewFileGenerator(t.TempDir())

	ref, err := g.Generate("abc-123", "event-9")
	require.NoError(t, err)
	assert.Equal(t, "ticket_abc-123.png", ref)

	info, err := os.Stat(g.Path(ref))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRemoveDeletesImages(t *testing.T) {
	g := NewFileGenerator(t.TempDir())

	ref, err := g.Generate("abc-123", "event-9")
	require.NoError(t, err)

	g.Remove(ref)
	_, err = os.Stat(filepath.Join(g.Dir, ref))
	assert.True(t, os.IsNotExist(err))

	// Unknown references are ignored.
	g.Remove("ticket_missing.png")
}
