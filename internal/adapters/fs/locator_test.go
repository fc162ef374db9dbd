package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reweave/reweave/internal/adapters/fs"
)

func TestLocator_FindFile_ExactMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	libA := writeFile(t, dir, "LibA.dll", "a")
	game := writeFile(t, dir, "Game.exe", "g")

	locator := fs.NewLocator([]string{libA, game})

	path, ok := locator.FindFile("LibA")
	require.True(t, ok)
	assert.Equal(t, libA, path)

	path, ok = locator.FindFile("Game")
	require.True(t, ok)
	assert.Equal(t, game, path)
}

func TestLocator_FindFile_PreservesSupplyOrder(t *testing.T) {
	t.Parallel()

	dirA := t.TempDir()
	dirB := t.TempDir()
	first := writeFile(t, dirA, "Shared.dll", "first")
	second := writeFile(t, dirB, "Shared.dll", "second")

	locator := fs.NewLocator([]string{first, second})

	path, ok := locator.FindFile("Shared")
	require.True(t, ok)
	assert.Equal(t, first, path)
}

func TestLocator_FindFile_ExactMatchBeatsFallback(t *testing.T) {
	t.Parallel()

	dirA := t.TempDir()
	dirB := t.TempDir()
	// The same library exists both as a listed reference in dirB and as an
	// unlisted sibling of a dirA reference; the listed one wins even though
	// dirA is scanned first.
	other := writeFile(t, dirA, "Other.dll", "o")
	writeFile(t, dirA, "Shared.dll", "fallback copy")
	listed := writeFile(t, dirB, "Shared.dll", "listed copy")

	locator := fs.NewLocator([]string{other, listed})

	path, ok := locator.FindFile("Shared")
	require.True(t, ok)
	assert.Equal(t, listed, path)
}

func TestLocator_FindFile_DirectoryFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	listed := writeFile(t, dir, "Listed.dll", "l")
	// Sibling exists on disk but is not in the reference list.
	sibling := writeFile(t, dir, "Sibling.dll", "s")

	locator := fs.NewLocator([]string{listed})

	path, ok := locator.FindFile("Sibling")
	require.True(t, ok)
	assert.Equal(t, sibling, path)
}

func TestLocator_FindFile_FallbackSkipsExecutables(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	listed := writeFile(t, dir, "Listed.dll", "l")
	// An executable next to a listed reference is only found when it is
	// itself on the reference list.
	writeFile(t, dir, "Tool.exe", "t")

	locator := fs.NewLocator([]string{listed})

	_, ok := locator.FindFile("Tool")
	assert.False(t, ok)
}

func TestLocator_FindFile_Miss(t *testing.T) {
	t.Parallel()

	locator := fs.NewLocator([]string{filepath.Join(t.TempDir(), "LibA.dll")})

	path, ok := locator.FindFile("Nope")
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestLocator_Factory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lib := writeFile(t, dir, "LibA.dll", "a")

	locator := fs.Factory([]string{lib})
	path, ok := locator.FindFile("LibA")
	require.True(t, ok)
	assert.Equal(t, lib, path)
}
