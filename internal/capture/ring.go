package capture

import "sync"

// Ring keeps the last len(buf) samples written to it
type Ring struct {
	mu     sync.Mutex
	buf    []float32
	next   int
	filled int
}

func NewRing(size int) *Ring {
	return &Ring{buf: make([]float32, size)}
}

func (r *Ring) Size() int {
	return len(r.buf)
}

func (r *Ring) Write(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := len(r.buf)
	if size == 0 {
		return
	}
	// only the tail can survive
	if len(samples) > size {
		samples = samples[len(samples)-size:]
	}
	for _, s := range samples {
		r.buf[r.next] = s
		r.next = (r.next + 1) % size
	}
	r.filled += len(samples)
	if r.filled > size {
		r.filled = size
	}
}

// Latest copies the newest samples, oldest first, into the tail of dst
func (r *Ring) Latest(dst []float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(dst)
	if n > r.filled {
		n = r.filled
	}
	if n == 0 {
		return 0
	}
	size := len(r.buf)
	start := (r.next - n + size) % size
	for i := 0; i < n; i++ {
		dst[len(dst)-n+i] = r.buf[(start+i)%size]
	}
	return n
}

func (r *Ring) Reset() {
	r.mu.Lock()
	r.next, r.filled = 0, 0
	r.mu.Unlock()
}
