package pitch

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	A4 = 440.0
)

// C0 is the equal-tempered reference for octave 0
var C0 = A4 * math.Pow(2, -4.75)

var names = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var flats = map[string]string{
	"DB": "C#",
	"EB": "D#",
	"GB": "F#",
	"AB": "G#",
	"BB": "A#",
}

// Name quantises a frequency to the nearest equal-tempered semitone and
// returns it as "<Name>/<Octave>", e.g. 440 -> "A/4".
func Name(frequency float64) (string, bool) {
	if frequency <= 0 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return "", false
	}
	semitone := int(math.Round(12 * math.Log2(frequency/C0)))
	index := semitone % 12
	if index < 0 {
		index += 12
	}
	octave := int(math.Floor(float64(semitone) / 12))
	return names[index] + "/" + strconv.Itoa(octave), true
}

// Letter returns the name part of a key, accidental included ("C#/4" -> "C#")
func Letter(key string) string {
	name, _, _ := strings.Cut(key, "/")
	return strings.ToUpper(name)
}

// Octave returns the octave part of a key
func Octave(key string) (int, error) {
	_, oct, ok := strings.Cut(key, "/")
	if !ok {
		return 0, errors.Errorf("missing octave in %q", key)
	}
	return strconv.Atoi(oct)
}

// Normalize rewrites a key into the form Name produces: upper case letter,
// flats spelled as sharps. "bb/3" -> "A#/3".
func Normalize(key string) (string, error) {
	name, oct, ok := strings.Cut(strings.TrimSpace(key), "/")
	if !ok || name == "" {
		return "", errors.Errorf("invalid pitch key %q", key)
	}
	if _, err := strconv.Atoi(oct); nil != err {
		return "", errors.Errorf("invalid octave in pitch key %q", key)
	}
	name = strings.ToUpper(name)
	if sharp, ok := flats[name]; ok {
		name = sharp
	}
	if semitoneOf(name) < 0 {
		return "", errors.Errorf("unknown note name in pitch key %q", key)
	}
	return name + "/" + oct, nil
}

// Frequency is the inverse of Name for a normalised key
func Frequency(key string) (float64, bool) {
	key, err := Normalize(key)
	if nil != err {
		return 0, false
	}
	octave, err := Octave(key)
	if nil != err {
		return 0, false
	}
	semitone := octave*12 + semitoneOf(Letter(key))
	return C0 * math.Pow(2, float64(semitone)/12), true
}

// KeyOf names a MIDI note number, 69 -> "A/4"
func KeyOf(midi int) string {
	return names[((midi%12)+12)%12] + "/" + strconv.Itoa(int(math.Floor(float64(midi)/12))-1)
}

func semitoneOf(name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
