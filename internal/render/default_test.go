package render

import (
	"bytes"
	"strings"
	"testing"

	"git.lost.host/meutraa/pitchtrainer/internal/score"
	"git.lost.host/meutraa/pitchtrainer/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(out *bytes.Buffer) *DefaultRenderer {
	r := NewDefaultRenderer()
	r.Out = out
	r.SetSize(80, 30)
	return r
}

func TestGeometry(t *testing.T) {
	r := newTestRenderer(&bytes.Buffer{})
	g := r.Geometry()
	assert.Equal(t, 16.0, g.OriginX)
	assert.Equal(t, float64(76*CellWidth), g.Width)
	assert.Equal(t, 30.0, g.Height)
}

func TestRow(t *testing.T) {
	r := newTestRenderer(&bytes.Buffer{})
	tests := []struct {
		key string
		row int
	}{
		{"F/5", staffTop},
		{"E/4", staffTop + 8},
		{"B/4", staffTop + 4},
		{"C/4", staffTop + 10},
		{"C#/4", staffTop + 10},
		{"G/3", staffTop + 13},
		{"C/2", staffTop + 14},
		{"C/8", 1},
		{"junk", staffTop + 4},
	}
	for _, test := range tests {
		assert.Equal(t, test.row, r.row(test.key), test.key)
	}
}

func TestDraw(t *testing.T) {
	out := &bytes.Buffer{}
	r := newTestRenderer(out)
	th := &theme.DefaultTheme{}

	err := r.Draw(Scene{
		TargetX: 100,
		Notes: []NoteView{
			{PitchKey: "A/4", Duration: "q", X: 104, Style: theme.Target},
			{PitchKey: "F#/4", Duration: "h", X: 40, Style: theme.Pending},
			{PitchKey: "B/4", Duration: "q", X: 10000, Style: theme.Pending},
		},
		Feedback: "Correct!",
		Detected: "A/4",
		Status:   "running",
		Sequence: "demo",
		Score:    score.Score{Hits: 1},
	})
	require.NoError(t, err)
	s := out.String()

	assert.True(t, strings.HasPrefix(s, "\033[2J"))
	assert.Contains(t, s, "\033[11;14H"+th.RenderNote("q", theme.Target))
	assert.Contains(t, s, "\033[13;5H"+"#")
	assert.Contains(t, s, "\033[13;6H"+th.RenderNote("h", theme.Pending))
	assert.Contains(t, s, th.RenderFeedback("Correct!"))
	assert.Contains(t, s, "Heard: A/4")
	assert.Contains(t, s, "demo  running")
	// off screen notes are not drawn
	assert.Equal(t, 1, strings.Count(s, th.RenderNote("q", theme.Pending))+strings.Count(s, th.RenderNote("q", theme.Target)))
}

func TestFlashOverridesFeedback(t *testing.T) {
	out := &bytes.Buffer{}
	r := newTestRenderer(out)
	th := &theme.DefaultTheme{}

	r.Flash("Missed A/4!", 2)
	for i := 0; i < 2; i++ {
		out.Reset()
		require.NoError(t, r.Draw(Scene{}))
		assert.Contains(t, out.String(), th.RenderFeedback("Missed A/4!"))
	}

	out.Reset()
	require.NoError(t, r.Draw(Scene{Feedback: "Correct!"}))
	assert.NotContains(t, out.String(), "Missed A/4!")
	assert.Contains(t, out.String(), th.RenderFeedback("Correct!"))
}

func TestClearFlash(t *testing.T) {
	out := &bytes.Buffer{}
	r := newTestRenderer(out)

	r.Flash("Practice finished!", 30)
	r.ClearFlash()
	require.NoError(t, r.Draw(Scene{}))
	assert.NotContains(t, out.String(), "Practice finished!")
}
