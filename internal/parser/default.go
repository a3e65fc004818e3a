package parser

import (
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/pitchtrainer/internal/game"
	"github.com/pkg/errors"
)

var ErrUnknownSequence = errors.New("unknown sequence")

// DefaultParser resolves a builtin name, a text file or a midi file
type DefaultParser struct{}

func (p *DefaultParser) Parse(source string) (*game.Sequence, error) {
	var (
		notes []game.Note
		err   error
		name  = source
	)
	if text, ok := builtin[strings.ToLower(source)]; ok {
		notes, err = parseText(text)
	} else {
		name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		switch strings.ToLower(filepath.Ext(source)) {
		case ".mid", ".midi", ".smf":
			notes, err = parseMIDI(source)
		case ".txt", ".notes":
			var data []byte
			data, err = os.ReadFile(source)
			if nil == err {
				notes, err = parseText(string(data))
			}
		default:
			return nil, errors.Wrapf(ErrUnknownSequence, "%q is not builtin (%s) or a .txt/.mid file",
				source, strings.Join(Builtins(), ", "))
		}
	}
	if nil != err {
		return nil, errors.Wrapf(err, "unable to parse sequence %s", source)
	}
	if len(notes) == 0 {
		return nil, errors.Errorf("sequence %s has no notes", source)
	}
	return game.NewSequence(name, notes), nil
}
