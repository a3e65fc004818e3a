package parser

import (
	"strings"

	"git.lost.host/meutraa/pitchtrainer/internal/game"
	"git.lost.host/meutraa/pitchtrainer/internal/pitch"
	"github.com/pkg/errors"
)

var durations = map[string]bool{
	"w": true, "h": true, "q": true, "8": true, "16": true,
}

// parseText reads whitespace or comma separated KEY[:DURATION] tokens.
// A "#" at the start of a token begins a comment, elsewhere it is a sharp.
// "A/4:h B/4 c#/5:8 # end"
func parseText(text string) ([]game.Note, error) {
	notes := []game.Note{}
	for n, line := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		line = stripComment(line)
		tokens := strings.FieldsFunc(line, func(r rune) bool {
			return r < 0x80 && isSeparator(byte(r))
		})
		for _, token := range tokens {
			key, duration, _ := strings.Cut(token, ":")
			if duration == "" {
				duration = "q"
			}
			if !durations[duration] {
				return nil, errors.Errorf("line %d: unknown duration %q", n+1, duration)
			}
			key, err := pitch.Normalize(key)
			if nil != err {
				return nil, errors.Wrapf(err, "line %d", n+1)
			}
			notes = append(notes, game.Note{PitchKey: key, Duration: duration})
		}
	}
	return notes, nil
}

func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			continue
		}
		if i == 0 || isSeparator(line[i-1]) {
			return line[:i]
		}
	}
	return line
}

func isSeparator(b byte) bool {
	return b == ' ' || b == '\t' || b == ','
}
