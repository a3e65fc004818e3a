package testdata

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

const Amplitude = 0.5

// Held is one pitch key sounding for Length; an empty key is a rest
type Held struct {
	Key    string
	Length time.Duration
}

// Take writes a mono 16 bit wav of the notes played back to back into dir
// and returns its path
func Take(dir string, rate beep.SampleRate, notes ...Held) (string, error) {
	streamers := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		frequency := 0.0
		if n.Key != "" {
			f, ok := pitch.Frequency(n.Key)
			if !ok {
				return "", errors.Errorf("unknown pitch key %q", n.Key)
			}
			frequency = f
		}
		streamers = append(streamers, beep.Take(rate.N(n.Length), sine(rate, frequency)))
	}

	path := filepath.Join(dir, "take.wav")
	f, err := os.Create(path)
	if nil != err {
		return "", errors.Wrap(err, "unable to create take")
	}
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Seq(streamers...), format); nil != err {
		return "", errors.Wrap(err, "unable to encode take")
	}
	return path, nil
}

func sine(rate beep.SampleRate, frequency float64) beep.Streamer {
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := Amplitude * math.Sin(2*math.Pi*phase)
			samples[i] = [2]float64{v, v}
			phase += frequency / float64(rate)
		}
		return len(samples), true
	})
}
