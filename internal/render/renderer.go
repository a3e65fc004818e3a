package render

import (
	"git.lost.host/meutraa/pitchtrainer/internal/game"
	"git.lost.host/meutraa/pitchtrainer/internal/score"
	"git.lost.host/meutraa/pitchtrainer/internal/theme"
)

// NoteView is one note to draw at an x position along the scroll axis
type NoteView struct {
	PitchKey string
	Duration string
	X        float64
	Style    theme.Style
}

// Scene is everything drawn in one frame, the renderer clears and redraws it all
type Scene struct {
	TargetX   float64
	Notes     []NoteView
	Feedback  string
	Detected  string
	Status    string
	Sequence  string
	Remaining int
	Score     score.Score
}

type Renderer interface {
	Init() error
	Deinit() error
	Geometry() game.Geometry
	// Flash shows message in place of the scene feedback for a number of frames
	Flash(message string, frames int)
	// ClearFlash drops every pending flash
	ClearFlash()
	Draw(scene Scene) error
}
