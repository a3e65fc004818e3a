package capture

import (
	"context"
	"encoding/binary"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/malgo"
	"github.com/pkg/errors"
)

// Microphone captures mono float32 samples from the default input device
type Microphone struct {
	Logger *log.Logger

	sampleRate uint32
	ring       *Ring

	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	scratch []float32
}

func NewMicrophone(sampleRate uint32, windowSize int) *Microphone {
	return &Microphone{
		Logger:     log.Default(),
		sampleRate: sampleRate,
		ring:       NewRing(windowSize),
	}
}

func (m *Microphone) SampleRate() float64 {
	return float64(m.sampleRate)
}

func (m *Microphone) WindowSize() int {
	return m.ring.Size()
}

func (m *Microphone) Window(dst []float32) int {
	return m.ring.Latest(dst)
}

func (m *Microphone) Acquire(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if nil != m.device {
		return nil
	}
	if err := ctx.Err(); nil != err {
		return err
	}

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		m.Logger.Debug("malgo", "message", message)
	})
	if nil != err {
		return errors.Wrapf(ErrPermission, "unable to init audio context: %v", err)
	}

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.Capture.Format = malgo.FormatF32
	config.Capture.Channels = 1
	config.SampleRate = m.sampleRate
	config.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(mctx.Context, config, malgo.DeviceCallbacks{
		Data: m.onData,
	})
	if nil != err {
		m.freeContext(mctx)
		return errors.Wrapf(ErrPermission, "unable to open capture device: %v", err)
	}
	if err := device.Start(); nil != err {
		device.Uninit()
		m.freeContext(mctx)
		return errors.Wrapf(ErrPermission, "unable to start capture device: %v", err)
	}

	m.ring.Reset()
	m.ctx, m.device = mctx, device
	m.Logger.Info("microphone acquired", "sampleRate", m.sampleRate, "window", m.ring.Size())
	return nil
}

// onData runs on the audio thread
func (m *Microphone) onData(_, input []byte, frameCount uint32) {
	n := len(input) / 4
	if n == 0 {
		return
	}
	if cap(m.scratch) < n {
		m.scratch = make([]float32, n)
	}
	samples := m.scratch[:n]
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(input[i*4:]))
	}
	m.ring.Write(samples)
}

func (m *Microphone) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if nil == m.device {
		return nil
	}
	err := m.device.Stop()
	m.device.Uninit()
	m.freeContext(m.ctx)
	m.device, m.ctx = nil, nil
	m.Logger.Info("microphone released")
	if nil != err {
		return errors.Wrap(err, "unable to stop capture device")
	}
	return nil
}

func (m *Microphone) freeContext(mctx *malgo.AllocatedContext) {
	if err := mctx.Uninit(); nil != err {
		m.Logger.Warn("unable to uninit audio context", "err", err)
	}
	mctx.Free()
}
