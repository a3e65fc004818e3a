package sampler

import (
	"sync"
	"time"
)

// Detection is one accepted pitch estimate
type Detection struct {
	Frequency float64
	Clarity   float64
	Name      string
	At        time.Time
}

// Slot holds only the latest detection. One writer, any number of readers.
type Slot struct {
	mu sync.RWMutex
	d  Detection
	ok bool
}

func (s *Slot) Store(d Detection, ok bool) {
	s.mu.Lock()
	s.d, s.ok = d, ok
	s.mu.Unlock()
}

// Load returns the latest detection, ok is false when the last sample had no pitch
func (s *Slot) Load() (Detection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d, s.ok
}

func (s *Slot) Clear() {
	s.Store(Detection{}, false)
}
