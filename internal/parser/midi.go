package parser

import (
	"math"
	"sort"

	"git.lost.host/meutraa/pitchtrainer/internal/game"
	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

type timedNote struct {
	start, end uint64
	key        uint8
}

// parseMIDI takes the melody of a standard midi file: every note on/off
// pair across all tracks, ordered by start. Notes starting together keep
// only the highest, there is only ever one target.
func parseMIDI(file string) ([]game.Note, error) {
	s, err := smf.ReadFile(file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read midi file")
	}
	resolution := 960.0
	if ticks, ok := s.TimeFormat.(smf.MetricTicks); ok && ticks.Resolution() > 0 {
		resolution = float64(ticks.Resolution())
	}

	timed := []timedNote{}
	for _, track := range s.Tracks {
		var (
			abs               uint64
			ch, key, velocity uint8
		)
		open := map[uint8]uint64{}
		for _, ev := range track {
			abs += uint64(ev.Delta)
			switch {
			case ev.Message.GetNoteOn(&ch, &key, &velocity) && velocity > 0:
				open[key] = abs
			case ev.Message.GetNoteOn(&ch, &key, &velocity), ev.Message.GetNoteOff(&ch, &key, &velocity):
				start, ok := open[key]
				if !ok {
					continue
				}
				delete(open, key)
				timed = append(timed, timedNote{start: start, end: abs, key: key})
			}
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].start == timed[j].start {
			return timed[i].key > timed[j].key
		}
		return timed[i].start < timed[j].start
	})

	notes := []game.Note{}
	for i, t := range timed {
		if i > 0 && timed[i-1].start == t.start {
			continue
		}
		notes = append(notes, game.Note{
			PitchKey: pitch.KeyOf(int(t.key)),
			Duration: quantise(float64(t.end-t.start) / resolution),
		})
	}
	return notes, nil
}

var beatDurations = []struct {
	beats float64
	name  string
}{
	{4, "w"}, {2, "h"}, {1, "q"}, {0.5, "8"}, {0.25, "16"},
}

// quantise snaps a length in beats to the closest written duration
func quantise(beats float64) string {
	if beats <= 0 {
		return "16"
	}
	best, distance := "q", math.Inf(1)
	for _, d := range beatDurations {
		if dd := math.Abs(math.Log2(beats / d.beats)); dd < distance {
			best, distance = d.name, dd
		}
	}
	return best
}
