package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/frudas24/cropslice/internal/geom"
	"github.com/stretchr/testify/require"
)

// TestSaveLoad_RoundTrip verifies saving and loading preserves the crop history.
func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	in := State{
		Image:  "photo.png",
		Output: "out.png",
		Commits: []Commit{{
			Rect:        geom.Rect{Left: 17, Top: 17, Width: 66, Height: 66},
			Width:       66,
			Height:      66,
			CommittedAt: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		}},
	}

	require.NoError(t, Save(path, in))
	out, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, in, out)

	last, ok := out.Last()
	require.True(t, ok)
	require.Equal(t, 66, last.Width)
}

// TestLoad_MissingFile_ReturnsEmpty verifies missing files return zero state.
func TestLoad_MissingFile_ReturnsEmpty(t *testing.T) {
	out, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, State{}, out)
	_, ok := out.Last()
	require.False(t, ok)
}

// TestLoad_Malformed verifies parse errors are reported.
func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("commits: [: bad"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
