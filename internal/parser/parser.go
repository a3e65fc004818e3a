package parser

import "git.lost.host/meutraa/pitchtrainer/internal/game"

type Parser interface {
	Parse(source string) (*game.Sequence, error)
}
