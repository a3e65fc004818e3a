package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"git.lost.host/meutraa/pitchtrainer/internal/game"
	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
	"git.lost.host/meutraa/pitchtrainer/internal/theme"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

const (
	// Geometry is in pixels, a terminal cell counts as this many
	CellWidth = 8
	staffTop  = 6
	// F/5, the top staff line, as a diatonic step from C/0
	topStep = 5*7 + 3
)

var letterSteps = map[byte]int{'C': 0, 'D': 1, 'E': 2, 'F': 3, 'G': 4, 'A': 5, 'B': 6}

type DefaultRenderer struct {
	Out   io.Writer
	Theme theme.Theme

	mu          sync.Mutex
	buffer      strings.Builder
	columns     int
	rows        int
	decorations []*decoration
}

type decoration struct {
	Content string
	Frames  int // remaining frames until removed
}

func NewDefaultRenderer() *DefaultRenderer {
	return &DefaultRenderer{
		Out:     os.Stdout,
		Theme:   &theme.DefaultTheme{},
		columns: 80,
		rows:    24,
	}
}

func (r *DefaultRenderer) Init() error {
	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		return errors.Wrap(err, "unable to get terminal size")
	}
	r.SetSize(columns, rows)

	fmt.Fprintf(r.Out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[2J",     // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	_, err := fmt.Fprintf(r.Out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	return err
}

func (r *DefaultRenderer) SetSize(columns, rows int) {
	r.mu.Lock()
	r.columns, r.rows = columns, rows
	r.mu.Unlock()
}

// Geometry leaves a two cell margin either side
func (r *DefaultRenderer) Geometry() game.Geometry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return game.Geometry{
		OriginX: 2 * CellWidth,
		OriginY: staffTop,
		Width:   float64((r.columns - 4) * CellWidth),
		Height:  float64(r.rows),
	}
}

func (r *DefaultRenderer) Flash(message string, frames int) {
	r.mu.Lock()
	r.decorations = append(r.decorations, &decoration{Content: message, Frames: frames})
	r.mu.Unlock()
}

func (r *DefaultRenderer) ClearFlash() {
	r.mu.Lock()
	r.decorations = nil
	r.mu.Unlock()
}

// tickDecorations returns the newest live decoration
func (r *DefaultRenderer) tickDecorations() *decoration {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames <= 0 {
			continue
		}
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
	if len(nd) == 0 {
		return nil
	}
	return nd[len(nd)-1]
}

func column(x float64) int {
	return int(x/CellWidth) + 1
}

// row of a pitch key on the treble stave, one row per diatonic step
func (r *DefaultRenderer) row(key string) int {
	letter := pitch.Letter(key)
	octave, err := pitch.Octave(key)
	if nil != err || letter == "" {
		return staffTop + 4
	}
	row := staffTop + topStep - (octave*7 + letterSteps[letter[0]])
	if row < 1 {
		row = 1
	}
	if max := staffTop + 14; row > max {
		row = max
	}
	return row
}

func (r *DefaultRenderer) Draw(scene Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer.WriteString("\033[2J")
	r.Fill(2, 3, fmt.Sprintf("%s  %s  %d to come", scene.Sequence, scene.Status, scene.Remaining))

	width := r.columns - 4
	line := strings.Repeat(r.Theme.RenderStaffLine(), width)
	for i := 0; i < 5; i++ {
		r.Fill(staffTop+2*i, 3, line)
	}
	tc := column(scene.TargetX)
	for row := staffTop - 1; row <= staffTop+9; row++ {
		r.Fill(row, tc, r.Theme.RenderTargetLine())
	}

	for _, n := range scene.Notes {
		col := column(n.X)
		if col < 3 || col > r.columns-2 {
			continue
		}
		row := r.row(n.PitchKey)
		if strings.Contains(n.PitchKey, "#") {
			r.Fill(row, col-1, "#")
		}
		r.Fill(row, col, r.Theme.RenderNote(n.Duration, n.Style))
	}

	feedback := scene.Feedback
	if d := r.tickDecorations(); nil != d {
		feedback = d.Content
	}
	base := staffTop + 16
	r.Fill(base, 3, r.Theme.RenderFeedback(feedback))
	detected := scene.Detected
	if detected == "" {
		detected = "-"
	}
	r.Fill(base+1, 3, fmt.Sprintf("Heard: %-5s  Correct: %d  Missed: %d  Accuracy: %3.0f%%",
		detected, scene.Score.Hits, scene.Score.Misses, 100*scene.Score.Accuracy()))
	r.Fill(base+2, 3, "s start   x stop   t tone   q quit")

	return r.flush()
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) flush() error {
	_, err := io.WriteString(r.Out, r.buffer.String())
	r.buffer.Reset()
	return err
}
