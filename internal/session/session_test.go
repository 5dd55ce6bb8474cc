package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akaiko1/rapid-culler/internal/scanner"
)

// recorder captures session callbacks for assertions.
type recorder struct {
	shown      []scanner.ImageRecord
	finished   int
	moveErrors []error
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnShow:      func(rec scanner.ImageRecord, index, total int) { r.shown = append(r.shown, rec) },
		OnFinished:  func() { r.finished++ },
		OnMoveError: func(rec scanner.ImageRecord, err error) { r.moveErrors = append(r.moveErrors, err) },
	}
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	return path
}

func newSession(t *testing.T, recursive bool, names ...string) (*Controller, *recorder, string, string) {
	t.Helper()
	src := t.TempDir()
	keep := t.TempDir()
	for _, name := range names {
		writeImage(t, filepath.Join(src, filepath.Dir(name)), filepath.Base(name))
	}

	rec := &recorder{}
	c := NewController(nil, rec.callbacks())
	require.NoError(t, c.Start(src, keep, recursive))
	return c, rec, src, keep
}

func TestStartEmptySource(t *testing.T) {
	src := t.TempDir()
	c := NewController(nil, Callbacks{})

	err := c.Start(src, t.TempDir(), false)
	assert.ErrorIs(t, err, ErrNoImages)
	assert.Equal(t, Idle, c.State())

	// The reject folder is still created up front.
	info, statErr := os.Stat(filepath.Join(src, RejectDirName))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestStartMissingSource(t *testing.T) {
	c := NewController(nil, Callbacks{})
	err := c.Start(filepath.Join(t.TempDir(), "nope", "deeper"), t.TempDir(), false)
	assert.Error(t, err)
	assert.Equal(t, Idle, c.State())
}

func TestStartShowsFirstRecord(t *testing.T) {
	c, rec, _, _ := newSession(t, false, "a.png", "b.png")

	assert.Equal(t, Browsing, c.State())
	assert.Equal(t, 2, c.Count())
	require.Len(t, rec.shown, 1)
	assert.Equal(t, "a.png", rec.shown[0].Filename)

	current, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "a.png", current.Filename)
}

func TestStartRefusedWhileBrowsing(t *testing.T) {
	c, _, src, keep := newSession(t, false, "a.png")
	assert.Error(t, c.Start(src, keep, false))
}

func TestKeepMovesAndAdvances(t *testing.T) {
	c, rec, src, keep := newSession(t, false, "a.png", "b.png")

	c.Keep()

	assert.FileExists(t, filepath.Join(keep, "a.png"))
	assert.NoFileExists(t, filepath.Join(src, "a.png"))
	assert.Equal(t, 1, c.Index())
	require.Len(t, rec.shown, 2)
	assert.Equal(t, "b.png", rec.shown[1].Filename)
}

func TestRejectMovesToRejectFolder(t *testing.T) {
	c, _, src, _ := newSession(t, false, "a.png", "b.png")

	c.Reject()

	assert.FileExists(t, filepath.Join(src, RejectDirName, "a.png"))
	assert.NoFileExists(t, filepath.Join(src, "a.png"))
}

func TestKeepPreservesRelativeStructure(t *testing.T) {
	c, _, _, keep := newSession(t, true, filepath.Join("sub", "b.jpg"))

	c.Keep()

	assert.FileExists(t, filepath.Join(keep, "sub", "b.jpg"))
}

func TestCollisionSuffixing(t *testing.T) {
	c, _, _, keep := newSession(t, false, "a.png", "b.png")
	require.NoError(t, os.WriteFile(filepath.Join(keep, "a.png"), []byte("existing"), 0o644))

	c.Keep()

	assert.FileExists(t, filepath.Join(keep, "a_1.png"))
	data, err := os.ReadFile(filepath.Join(keep, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data), "the pre-existing file must be untouched")
}

func TestRepeatedCollisionsCountUp(t *testing.T) {
	keep := t.TempDir()
	for i := 0; i < 3; i++ {
		src := t.TempDir()
		writeImage(t, src, "a.png")

		c := NewController(nil, Callbacks{})
		require.NoError(t, c.Start(src, keep, false))
		c.Keep()
	}

	assert.FileExists(t, filepath.Join(keep, "a.png"))
	assert.FileExists(t, filepath.Join(keep, "a_1.png"))
	assert.FileExists(t, filepath.Join(keep, "a_2.png"))
}

func TestNavigationBounds(t *testing.T) {
	c, rec, _, _ := newSession(t, false, "a.png", "b.png")

	c.Previous() // already at the first record
	assert.Equal(t, 0, c.Index())

	c.Next()
	assert.Equal(t, 1, c.Index())
	c.Next() // already at the last record
	assert.Equal(t, 1, c.Index())

	c.Previous()
	assert.Equal(t, 0, c.Index())

	c.Skip()
	assert.Equal(t, 1, c.Index())

	// initial a, b(next), a(previous), b(skip); the bounds no-ops show nothing
	assert.Len(t, rec.shown, 4)
}

func TestFinishAfterLastMove(t *testing.T) {
	c, rec, _, keep := newSession(t, false, "a.png")

	c.Keep()

	assert.Equal(t, Finished, c.State())
	assert.Equal(t, 1, rec.finished)
	assert.FileExists(t, filepath.Join(keep, "a.png"))

	_, ok := c.Current()
	assert.False(t, ok)

	// Further actions are no-ops once finished.
	c.Keep()
	c.Reject()
	c.Next()
	c.Previous()
	assert.Equal(t, 1, rec.finished)
	assert.Len(t, rec.shown, 1)
}

func TestMoveFailureDoesNotAdvance(t *testing.T) {
	src := t.TempDir()
	writeImage(t, src, "a.png")

	// The keep destination is a file, so every move into it must fail.
	keep := filepath.Join(t.TempDir(), "keepfile")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	rec := &recorder{}
	c := NewController(nil, rec.callbacks())
	require.NoError(t, c.Start(src, keep, false))

	c.Keep()

	require.Len(t, rec.moveErrors, 1)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, Browsing, c.State())
	assert.FileExists(t, filepath.Join(src, "a.png"), "the source file must survive a failed move")
	assert.Zero(t, rec.finished)
}

func TestRecursiveScanExcludesRejectFolder(t *testing.T) {
	src := t.TempDir()
	writeImage(t, src, "a.png")
	writeImage(t, filepath.Join(src, RejectDirName), "old.png")
	writeImage(t, filepath.Join(src, RejectDirName, "sub"), "older.png")

	c := NewController(nil, Callbacks{})
	require.NoError(t, c.Start(src, t.TempDir(), true))

	assert.Equal(t, 1, c.Count())
	current, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "a.png", current.Filename)
}
