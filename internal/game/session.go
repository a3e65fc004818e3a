package game

import (
	"time"

	"git.lost.host/meutraa/pitchtrainer/internal/score"
	"github.com/pkg/errors"
)

type Status int

const (
	NotStarted Status = iota
	Running
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return "unknown"
}

var ErrNotStartable = errors.New("session can only start from not started")

// Settings are the scroll constants, in the same units as Geometry
type Settings struct {
	ScrollSpeed    float64 // per tick
	NoteSpacing    float64 // between spawns
	ActivationBand float64 // half width of the band around the target line
}

// Geometry of the scroll region as reported by the renderer
type Geometry struct {
	OriginX, OriginY float64
	Width, Height    float64
}

func (g Geometry) TargetX() float64 {
	return g.OriginX + g.Width/3
}

func (g Geometry) Boundary() float64 {
	return g.OriginX + g.Width
}

// Session is one run through a sequence. It is not safe for concurrent
// use; the owner serialises Tick, Match and Snapshot.
type Session struct {
	settings Settings
	geometry Geometry
	template *Sequence
	scorer   score.Scorer

	sequence *Sequence
	active   []*ActiveNote
	target   *ActiveNote
	feedback string
	status   Status

	onFeedback func(string)
}

func NewSession(sequence *Sequence, settings Settings, geometry Geometry) *Session {
	return &Session{
		settings: settings,
		geometry: geometry,
		template: sequence,
		scorer:   score.NewScorer(),
		status:   NotStarted,
	}
}

// OnFeedback registers fn to be called with every feedback change
func (s *Session) OnFeedback(fn func(string)) {
	s.onFeedback = fn
}

func (s *Session) Status() Status {
	return s.status
}

func (s *Session) Feedback() string {
	return s.feedback
}

func (s *Session) Score() score.Score {
	return s.scorer.Score()
}

func (s *Session) Start() error {
	if s.status != NotStarted {
		return errors.Wrapf(ErrNotStartable, "session is %v", s.status)
	}
	s.sequence = s.template.Rewind()
	s.active = []*ActiveNote{}
	s.target = nil
	s.scorer = score.NewScorer()
	s.status = Running
	s.setFeedback("")
	return nil
}

// Stop abandons a running session and returns it to not started
func (s *Session) Stop() {
	if s.status != Running {
		return
	}
	s.target = nil
	s.active = nil
	s.status = NotStarted
}

func (s *Session) band() (float64, float64) {
	x := s.geometry.TargetX()
	return x - s.settings.ActivationBand, x + s.settings.ActivationBand
}

// Tick moves the scroll forward one frame: advance, activate, miss,
// retire, spawn, finish. A target that was played stays the target until
// it passes the far edge of the band and is then released without a miss.
// A target that leaves the visible region unplayed is missed even when the
// band reaches past the boundary.
func (s *Session) Tick(now time.Time) Status {
	if s.status != Running {
		return s.status
	}
	if nil == s.target {
		s.setFeedback("")
	}

	for _, n := range s.active {
		n.Position += s.settings.ScrollSpeed
	}

	lo, hi := s.band()
	for _, n := range s.active {
		if nil == s.target && !n.Played && !n.Missed && n.Position >= lo && n.Position <= hi {
			s.target = n
			n.ActivatedAt = now
		}
		if s.target == n && n.Position > hi {
			s.release(n)
		}
	}

	boundary := s.geometry.Boundary()
	kept := s.active[:0]
	for _, n := range s.active {
		if n.Position > boundary {
			if s.target == n {
				s.release(n)
			}
			continue
		}
		kept = append(kept, n)
	}
	for i := len(kept); i < len(s.active); i++ {
		s.active[i] = nil
	}
	s.active = kept

	if !s.sequence.Exhausted() {
		last := len(s.active) - 1
		if last < 0 || s.active[last].Position >= s.geometry.OriginX+s.settings.NoteSpacing {
			note, _ := s.sequence.Next()
			s.active = append(s.active, &ActiveNote{
				Note:     note,
				Position: s.geometry.OriginX,
			})
		}
	} else if len(s.active) == 0 {
		s.target = nil
		s.status = Finished
		s.setFeedback(FeedbackFinished)
	}
	return s.status
}

// release drops the target, missing it unless it was played
func (s *Session) release(n *ActiveNote) {
	if !n.Played {
		n.Missed = true
		s.scorer.Record(n.Note.PitchKey, score.Miss)
		s.setFeedback(missed(n.Note.PitchKey))
	}
	s.target = nil
}

// Match judges the latest detected note name against the target. ok is
// false when nothing clear was heard, which leaves feedback untouched.
// Once the target is played it ignores detections until the next target.
func (s *Session) Match(detected string, ok bool) {
	if s.status != Running || nil == s.target || s.target.Played || !ok || detected == "" {
		return
	}
	t := s.target
	feedback, correct, wrong := judge(t.Note.PitchKey, detected)
	switch {
	case correct:
		t.Played = true
		s.scorer.Record(t.Note.PitchKey, score.Hit)
	case wrong && !t.Wrong:
		t.Wrong = true
		s.scorer.Record(t.Note.PitchKey, score.Wrong)
	}
	s.setFeedback(feedback)
}

func (s *Session) setFeedback(feedback string) {
	if feedback == s.feedback {
		return
	}
	s.feedback = feedback
	if nil != s.onFeedback {
		s.onFeedback(feedback)
	}
}

// Snapshot is a copy of the session state for rendering and observers
type Snapshot struct {
	Status    Status
	Feedback  string
	Target    string
	TargetAt  int // index into Notes, -1 without a target
	Notes     []ActiveNote
	TargetX   float64
	BandLow   float64
	BandHigh  float64
	Remaining int
	Score     score.Score
}

func (s *Session) Snapshot() Snapshot {
	lo, hi := s.band()
	snap := Snapshot{
		Status:   s.status,
		Feedback: s.feedback,
		TargetX:  s.geometry.TargetX(),
		BandLow:  lo,
		BandHigh: hi,
		Score:    s.scorer.Score(),
		TargetAt: -1,
		Notes:    make([]ActiveNote, 0, len(s.active)),
	}
	if nil != s.target {
		snap.Target = s.target.Note.PitchKey
	}
	if nil != s.sequence {
		snap.Remaining = s.sequence.Remaining()
	} else {
		snap.Remaining = s.template.Len()
	}
	for i, n := range s.active {
		if n == s.target {
			snap.TargetAt = i
		}
		snap.Notes = append(snap.Notes, *n)
	}
	return snap
}
