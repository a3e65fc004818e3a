package tone

import (
	"math"
	"sync"
	"time"

	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
)

var ErrUnknownKey = errors.New("no frequency for pitch key")

// fade in and out so a tone never clicks
const fade = 10 * time.Millisecond

// Player plays the reference pitch of a key through the default output
type Player struct {
	Logger *log.Logger

	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

func NewPlayer(rate beep.SampleRate) *Player {
	return &Player{
		Logger: log.Default(),
		rate:   rate,
		mixer:  &beep.Mixer{},
	}
}

func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(time.Second/10)); nil != err {
		return errors.Wrap(err, "unable to open speaker")
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play replaces whatever tone is sounding with key for d
func (p *Player) Play(key string, d time.Duration) error {
	frequency, ok := pitch.Frequency(key)
	if !ok {
		return errors.Wrapf(ErrUnknownKey, "%q", key)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return errors.New("speaker is not initialised")
	}
	p.Logger.Debug("tone", "key", key, "frequency", frequency)
	speaker.Lock()
	p.mixer.Clear()
	p.mixer.Add(Sine(p.rate, frequency, d, 0.3))
	speaker.Unlock()
	return nil
}

func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// Sine is a stereo sine of the given frequency and amplitude lasting d
func Sine(rate beep.SampleRate, frequency float64, d time.Duration, amplitude float64) beep.Streamer {
	total := rate.N(d)
	ramp := rate.N(fade)
	if 2*ramp > total {
		ramp = total / 2
	}
	step := 2 * math.Pi * frequency / float64(rate)
	i := 0
	return beep.Take(total, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			gain := amplitude
			if i < ramp {
				gain *= float64(i) / float64(ramp)
			} else if left := total - i; left < ramp {
				gain *= float64(left) / float64(ramp)
			}
			v := gain * math.Sin(step*float64(i))
			samples[j][0], samples[j][1] = v, v
			i++
		}
		return len(samples), true
	}))
}
