package capture

import (
	"context"

	"github.com/pkg/errors"
)

// ErrPermission is returned by Acquire when the input device is denied or missing
var ErrPermission = errors.New("audio input unavailable")

// Source owns an audio input and the ring its samples land in.
// Window copies the most recent samples into dst and returns how many were
// copied; fewer than len(dst) means the ring has not filled yet.
type Source interface {
	Acquire(ctx context.Context) error
	SampleRate() float64
	WindowSize() int
	Window(dst []float32) int
	Release() error
}
