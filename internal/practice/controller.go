package practice

import (
	"context"
	"sort"
	"sync"
	"time"

	"git.lost.host/meutraa/pitchtrainer/internal/capture"
	"git.lost.host/meutraa/pitchtrainer/internal/clock"
	"git.lost.host/meutraa/pitchtrainer/internal/config"
	"git.lost.host/meutraa/pitchtrainer/internal/game"
	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
	"git.lost.host/meutraa/pitchtrainer/internal/render"
	"git.lost.host/meutraa/pitchtrainer/internal/sampler"
	"git.lost.host/meutraa/pitchtrainer/internal/theme"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

var ErrWindowMismatch = errors.New("capture window does not match the detector window")

// MicDenied is the feedback shown when the input device cannot be acquired
const MicDenied = "Microphone access denied. Please allow microphone to use the practice mode."

// Update is published whenever what a player sees changes
type Update struct {
	Status   game.Status
	Feedback string
	Target   string
	Detected string
}

// Controller owns one practice session at a time: the capture source, the
// sampler task, the frame task and the session they share.
type Controller struct {
	Logger *log.Logger

	cfg      *config.Config
	sequence *game.Sequence
	source   capture.Source
	detector pitch.Detector
	renderer render.Renderer
	slot     *sampler.Slot
	updates  chan Update

	mu       sync.Mutex // serialises Start, Stop and finish
	running  bool
	sampling *clock.Task
	frames   *clock.Task

	stateMu sync.Mutex // guards everything below
	session *game.Session
	notice  string // feedback shown while there is no session
	last    Update
}

func NewController(cfg *config.Config, sequence *game.Sequence, source capture.Source, detector pitch.Detector, renderer render.Renderer) *Controller {
	return &Controller{
		Logger:   log.Default(),
		cfg:      cfg,
		sequence: sequence,
		source:   source,
		detector: detector,
		renderer: renderer,
		slot:     &sampler.Slot{},
		updates:  make(chan Update, 16),
	}
}

// Updates delivers changes in order. A slow reader loses the oldest ones.
func (c *Controller) Updates() <-chan Update {
	return c.updates
}

// Start acquires the input and begins a fresh session. ctx only bounds the
// acquisition; the session runs until Stop or until it finishes.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	if err := c.cfg.Validate(); nil != err {
		return errors.Wrap(err, "invalid configuration")
	}
	if c.source.WindowSize() != c.detector.Size() {
		return errors.Wrapf(ErrWindowMismatch, "capture has %d samples, detector wants %d",
			c.source.WindowSize(), c.detector.Size())
	}
	if err := c.source.Acquire(ctx); nil != err {
		c.stateMu.Lock()
		c.session = nil
		c.notice = MicDenied
		c.publish(Update{Status: game.NotStarted, Feedback: MicDenied})
		c.stateMu.Unlock()
		c.Logger.Error("unable to acquire input", "err", err)
		return err
	}

	geometry := c.renderer.Geometry()
	sess := game.NewSession(c.sequence, c.cfg.Settings(), geometry)
	sess.OnFeedback(c.onFeedback)
	if err := sess.Start(); nil != err {
		c.release()
		return err
	}
	if snap := sess.Snapshot(); snap.BandHigh > geometry.Boundary() {
		c.Logger.Warn("activation band reaches past the screen edge, widen the terminal",
			"band", snap.BandHigh, "boundary", geometry.Boundary())
	}
	c.slot.Clear()
	c.renderer.ClearFlash()

	c.stateMu.Lock()
	c.session = sess
	c.notice = ""
	c.stateMu.Unlock()

	s := sampler.New(c.source, c.detector, c.slot, c.cfg.ConfidenceThreshold)
	s.Logger = c.Logger
	c.running = true
	c.sampling = clock.Every(context.Background(), c.cfg.SamplingPeriod, func(now time.Time) bool {
		s.Sample(now)
		return true
	})
	c.frames = clock.Every(context.Background(), c.cfg.FramePeriod(), func(now time.Time) bool {
		return c.frame(sess, now)
	})
	c.Logger.Info("session started", "sequence", c.sequence.Name, "notes", c.sequence.Len())
	return nil
}

// Stop abandons the running session. It is a no-op when nothing runs.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	err := c.teardown()

	c.stateMu.Lock()
	c.session.Stop()
	c.publish(c.update(c.session))
	c.stateMu.Unlock()
	c.Logger.Info("session stopped")
	return err
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Controller) Status() game.Status {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if nil == c.session {
		return game.NotStarted
	}
	return c.session.Status()
}

func (c *Controller) Snapshot() game.Snapshot {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() game.Snapshot {
	if nil == c.session {
		return game.Snapshot{
			Feedback:  c.notice,
			TargetAt:  -1,
			Remaining: c.sequence.Len(),
		}
	}
	return c.session.Snapshot()
}

// Reference is the key worth hearing now: the target, else the next note
// to reach the target line, else the first note of the sequence
func (c *Controller) Reference() string {
	snap := c.Snapshot()
	if snap.Target != "" {
		return snap.Target
	}
	for _, n := range snap.Notes {
		if !n.Played && !n.Missed && !n.Activated() {
			return n.Note.PitchKey
		}
	}
	if notes := c.sequence.Notes(); len(notes) > 0 {
		return notes[0].PitchKey
	}
	return ""
}

// Draw renders the current state, for use while no frame task runs
func (c *Controller) Draw() error {
	c.stateMu.Lock()
	snap := c.snapshot()
	c.stateMu.Unlock()
	return c.renderer.Draw(c.scene(snap, c.detected()))
}

func (c *Controller) frame(sess *game.Session, now time.Time) bool {
	c.stateMu.Lock()
	if c.session != sess {
		c.stateMu.Unlock()
		return false
	}
	// the scroll settles before the match reads the target
	status := sess.Tick(now)
	if status == game.Running {
		d, ok := c.slot.Load()
		sess.Match(d.Name, ok)
	}
	snap := sess.Snapshot()
	if u := c.update(sess); u != c.last {
		c.publish(u)
	}
	c.stateMu.Unlock()

	if err := c.renderer.Draw(c.scene(snap, c.detected())); nil != err {
		c.Logger.Warn("unable to draw", "err", err)
	}
	if status == game.Finished {
		go c.finish(sess)
		return false
	}
	return true
}

// finish releases a session that reached the end on its own
func (c *Controller) finish(sess *game.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateMu.Lock()
	current := c.session == sess
	c.stateMu.Unlock()
	if !c.running || !current {
		return
	}
	if err := c.teardown(); nil != err {
		c.Logger.Warn("unable to release input", "err", err)
	}
	score := sess.Score()
	c.Logger.Info("session finished", "sequence", c.sequence.Name,
		"correct", score.Hits, "missed", score.Misses, "wrong", score.Wrongs, "accuracy", score.Accuracy())
	keys := make([]string, 0, len(score.Keys))
	for key := range score.Keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		k := score.Keys[key]
		c.Logger.Info("key tally", "key", key, "correct", k.Hits, "missed", k.Misses, "wrong", k.Wrongs)
	}
}

// teardown must hold mu
func (c *Controller) teardown() error {
	c.frames.Stop()
	c.sampling.Stop()
	c.frames, c.sampling = nil, nil
	c.running = false
	c.slot.Clear()
	return c.release()
}

func (c *Controller) release() error {
	if err := c.source.Release(); nil != err {
		return errors.Wrap(err, "unable to release input")
	}
	return nil
}

// onFeedback runs inside Tick or Match with stateMu held
func (c *Controller) onFeedback(feedback string) {
	c.Logger.Debug("feedback", "feedback", feedback)
	if feedback == "" {
		return
	}
	frames := int(c.cfg.RefreshRate / 2)
	if frames < 1 {
		frames = 1
	}
	c.renderer.Flash(feedback, frames)
	if nil != c.session {
		u := c.update(c.session)
		u.Feedback = feedback
		c.publish(u)
	}
}

// update must hold stateMu
func (c *Controller) update(sess *game.Session) Update {
	snap := sess.Snapshot()
	return Update{
		Status:   snap.Status,
		Feedback: snap.Feedback,
		Target:   snap.Target,
		Detected: c.detected(),
	}
}

func (c *Controller) detected() string {
	if d, ok := c.slot.Load(); ok {
		return d.Name
	}
	return ""
}

// publish must hold stateMu
func (c *Controller) publish(u Update) {
	c.last = u
	for {
		select {
		case c.updates <- u:
			return
		default:
		}
		select {
		case <-c.updates:
		default:
		}
	}
}

func (c *Controller) scene(snap game.Snapshot, detected string) render.Scene {
	notes := make([]render.NoteView, len(snap.Notes))
	for i, n := range snap.Notes {
		style := theme.Pending
		switch {
		case n.Played:
			style = theme.Played
		case n.Missed:
			style = theme.Missed
		case i == snap.TargetAt:
			style = theme.Target
		}
		notes[i] = render.NoteView{
			PitchKey: n.Note.PitchKey,
			Duration: n.Note.Duration,
			X:        n.Position,
			Style:    style,
		}
	}
	targetX := snap.TargetX
	if targetX == 0 {
		targetX = c.renderer.Geometry().TargetX()
	}
	return render.Scene{
		TargetX:   targetX,
		Notes:     notes,
		Feedback:  snap.Feedback,
		Detected:  detected,
		Status:    snap.Status.String(),
		Sequence:  c.sequence.Name,
		Remaining: snap.Remaining,
		Score:     snap.Score,
	}
}
