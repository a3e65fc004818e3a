package capture

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

const chunkPeriod = 20 * time.Millisecond

// File replays a recorded take into the ring at its natural rate, as if it
// were being played into the microphone. Once the take ends it feeds silence.
type File struct {
	Logger *log.Logger

	path string
	ring *Ring

	mu         sync.Mutex
	streamer   beep.StreamSeekCloser
	sampleRate beep.SampleRate
	stop       chan struct{}
	done       chan struct{}
}

func NewFile(path string, windowSize int) *File {
	return &File{
		Logger: log.Default(),
		path:   path,
		ring:   NewRing(windowSize),
	}
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, beep.Format{}, err
	}
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		err = errors.Errorf("unsupported audio file %q", path)
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}

func (f *File) SampleRate() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return float64(f.sampleRate)
}

func (f *File) WindowSize() int {
	return f.ring.Size()
}

func (f *File) Window(dst []float32) int {
	return f.ring.Latest(dst)
}

func (f *File) Acquire(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if nil != f.streamer {
		return nil
	}
	if err := ctx.Err(); nil != err {
		return err
	}
	streamer, format, err := decode(f.path)
	if nil != err {
		return errors.Wrapf(ErrPermission, "unable to open recording %s: %v", f.path, err)
	}
	f.ring.Reset()
	f.streamer = streamer
	f.sampleRate = format.SampleRate
	f.stop = make(chan struct{})
	f.done = make(chan struct{})
	go f.pump(streamer, format.SampleRate.N(chunkPeriod), f.stop, f.done)
	f.Logger.Info("recording acquired", "path", f.path, "sampleRate", int(format.SampleRate))
	return nil
}

func (f *File) pump(streamer beep.Streamer, frames int, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(chunkPeriod)
	defer ticker.Stop()

	stereo := make([][2]float64, frames)
	mono := make([]float32, frames)
	ended := false
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		n := 0
		if !ended {
			var ok bool
			n, ok = streamer.Stream(stereo)
			if !ok {
				ended = true
				f.Logger.Debug("recording ended", "path", f.path)
			}
		}
		for i := range mono {
			if i < n {
				mono[i] = float32((stereo[i][0] + stereo[i][1]) / 2)
			} else {
				mono[i] = 0
			}
		}
		f.ring.Write(mono)
	}
}

func (f *File) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if nil == f.streamer {
		return nil
	}
	close(f.stop)
	<-f.done
	err := f.streamer.Close()
	f.streamer = nil
	f.Logger.Info("recording released", "path", f.path)
	if nil != err {
		return errors.Wrap(err, "unable to close recording")
	}
	return nil
}
