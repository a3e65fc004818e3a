package sampler

import (
	"time"

	"git.lost.host/meutraa/pitchtrainer/internal/capture"
	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
	"github.com/charmbracelet/log"
)

// Sampler turns the latest capture window into a named pitch on each call
// to Sample and publishes it to the slot
type Sampler struct {
	Logger *log.Logger

	source    capture.Source
	detector  pitch.Detector
	slot      *Slot
	threshold float64
	window    []float32
}

func New(source capture.Source, detector pitch.Detector, slot *Slot, threshold float64) *Sampler {
	return &Sampler{
		Logger:    log.Default(),
		source:    source,
		detector:  detector,
		slot:      slot,
		threshold: threshold,
		window:    make([]float32, detector.Size()),
	}
}

func (s *Sampler) Sample(now time.Time) (Detection, bool) {
	d, ok := s.estimate(now)
	s.slot.Store(d, ok)
	return d, ok
}

func (s *Sampler) estimate(now time.Time) (Detection, bool) {
	if n := s.source.Window(s.window); n < len(s.window) {
		s.Logger.Debug("capture underrun", "have", n, "want", len(s.window))
		return Detection{}, false
	}
	frequency, clarity := s.detector.Detect(s.window, s.source.SampleRate())
	if clarity <= s.threshold || frequency <= 0 {
		return Detection{}, false
	}
	name, ok := pitch.Name(frequency)
	if !ok {
		return Detection{}, false
	}
	return Detection{
		Frequency: frequency,
		Clarity:   clarity,
		Name:      name,
		At:        now,
	}, true
}
