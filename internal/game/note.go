package game

import "time"

// Note is one entry of a practice sequence, e.g. {"A/4", "q"}
type Note struct {
	PitchKey string
	Duration string // vexflow style: w, h, q, 8, 16
}

// ActiveNote is a Note that has been spawned onto the scroll axis
type ActiveNote struct {
	Note     Note
	Position float64

	// This is state
	Played      bool
	Missed      bool
	Wrong       bool      // a wrong letter was heard while this was the target
	ActivatedAt time.Time // zero until it becomes the target
}

func (n *ActiveNote) Activated() bool {
	return !n.ActivatedAt.IsZero()
}
