package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/pitchtrainer/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTone(t *testing.T, key string, length time.Duration) string {
	t.Helper()
	path, err := testdata.Take(t.TempDir(), 44100, testdata.Held{Key: key, Length: length})
	require.NoError(t, err)
	return path
}

func TestFileFillsWindow(t *testing.T) {
	path := writeTone(t, "A/4", 2*time.Second)
	src := NewFile(path, 1024)
	require.NoError(t, src.Acquire(context.Background()))
	t.Cleanup(func() { src.Release() })

	assert.Equal(t, 44100.0, src.SampleRate())
	dst := make([]float32, src.WindowSize())
	require.Eventually(t, func() bool {
		return src.Window(dst) == len(dst)
	}, 2*time.Second, 5*time.Millisecond)

	var peak float32
	for _, s := range dst {
		if s > peak {
			peak = s
		}
	}
	assert.InDelta(t, testdata.Amplitude, peak, 0.05)
}

func TestFileReleaseIsIdempotent(t *testing.T) {
	src := NewFile(writeTone(t, "A/3", 100*time.Millisecond), 256)
	require.NoError(t, src.Acquire(context.Background()))
	assert.NoError(t, src.Release())
	assert.NoError(t, src.Release())
}

func TestFileMissing(t *testing.T) {
	src := NewFile(filepath.Join(t.TempDir(), "missing.wav"), 256)
	err := src.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermission)
}

func TestFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.flac")
	require.NoError(t, os.WriteFile(path, []byte("fLaC"), 0o644))
	err := NewFile(path, 256).Acquire(context.Background())
	assert.ErrorIs(t, err, ErrPermission)
}
