package parser

import "sort"

// Builtin sequences, one per entry of the practice menu
var builtin = map[string]string{
	"demo": "A/4 B/4 C/5 G/4 E/5",

	"a-major": "A/4 B/4 C#/5 D/5 E/5 F#/5 G#/5 A/5",
	"d-major": "D/4 E/4 F#/4 G/4 A/4 B/4 C#/5 D/5",
	"g-major": "G/3 A/3 B/3 C/4 D/4 E/4 F#/4 G/4",
	"c-major": "C/4 D/4 E/4 F/4 G/4 A/4 B/4 C/5",
	"e-minor": "E/4 F#/4 G/4 A/4 B/4 C/5 D/5 E/5",

	// first position on each string, open string first
	"g-string": "G/3 A/3 B/3 C/4 D/4 C/4 B/3 A/3 G/3",
	"d-string": "D/4 E/4 F#/4 G/4 A/4 G/4 F#/4 E/4 D/4",
	"a-string": "A/4 B/4 C#/5 D/5 E/5 D/5 C#/5 B/4 A/4",
	"e-string": "E/5 F#/5 G#/5 A/5 B/5 A/5 G#/5 F#/5 E/5",
}

// Builtins lists the builtin sequence names
func Builtins() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
