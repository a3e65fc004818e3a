package pitch

import "math"

const (
	// Peaks below this fraction of the highest key maximum are ignored
	cutoff = 0.93
	// RMS below which a window is treated as silence
	silenceFloor = 0.005
)

// McLeod is the McLeod pitch method: a normalised square difference
// function over the window, key maxima between zero crossings, and a
// parabolic fit around the chosen peak. The peak height is the clarity.
type McLeod struct {
	size int
	nsdf []float64
	x    []float64
}

func NewMcLeod(size int) *McLeod {
	return &McLeod{
		size: size,
		nsdf: make([]float64, size/2),
		x:    make([]float64, size),
	}
}

func (m *McLeod) Size() int {
	return m.size
}

// Detect is not safe for concurrent use, the scratch buffers are shared
func (m *McLeod) Detect(samples []float32, sampleRate float64) (float64, float64) {
	if len(samples) != m.size || m.size < 4 || sampleRate <= 0 {
		return 0, 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	mean := sum / float64(len(samples))
	var energy float64
	for i, s := range samples {
		v := float64(s) - mean
		m.x[i] = v
		energy += v * v
	}
	if math.Sqrt(energy/float64(len(samples))) < silenceFloor {
		return 0, 0
	}

	m.normalisedSquareDifference()

	peaks := m.keyMaxima()
	if len(peaks) == 0 {
		return 0, 0
	}
	highest := 0.0
	for _, p := range peaks {
		if m.nsdf[p] > highest {
			highest = m.nsdf[p]
		}
	}
	threshold := cutoff * highest
	chosen := peaks[0]
	for _, p := range peaks {
		if m.nsdf[p] >= threshold {
			chosen = p
			break
		}
	}

	tau, clarity := m.interpolate(chosen)
	if tau <= 0 {
		return 0, 0
	}
	if clarity > 1 {
		clarity = 1
	}
	return sampleRate / tau, clarity
}

func (m *McLeod) normalisedSquareDifference() {
	n := len(m.x)
	for tau := range m.nsdf {
		var acf, div float64
		for i := 0; i < n-tau; i++ {
			a, b := m.x[i], m.x[i+tau]
			acf += a * b
			div += a*a + b*b
		}
		if div > 0 {
			m.nsdf[tau] = 2 * acf / div
		} else {
			m.nsdf[tau] = 0
		}
	}
}

// keyMaxima returns the highest point of every positive lobe after the
// first negative-going zero crossing
func (m *McLeod) keyMaxima() []int {
	n := len(m.nsdf)
	pos := 0
	for pos < n && m.nsdf[pos] > 0 {
		pos++
	}
	for pos < n && m.nsdf[pos] <= 0 {
		pos++
	}
	if pos == 0 {
		pos = 1
	}

	peaks := []int{}
	current := -1
	for ; pos < n-1; pos++ {
		v := m.nsdf[pos]
		if v <= 0 {
			if current >= 0 {
				peaks = append(peaks, current)
				current = -1
			}
			continue
		}
		if v > m.nsdf[pos-1] && v >= m.nsdf[pos+1] {
			if current < 0 || v > m.nsdf[current] {
				current = pos
			}
		}
	}
	if current >= 0 {
		peaks = append(peaks, current)
	}
	return peaks
}

func (m *McLeod) interpolate(tau int) (float64, float64) {
	if tau < 1 || tau >= len(m.nsdf)-1 {
		return float64(tau), m.nsdf[tau]
	}
	y0, y1, y2 := m.nsdf[tau-1], m.nsdf[tau], m.nsdf[tau+1]
	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return float64(tau), y1
	}
	shift := 0.5 * (y0 - y2) / denom
	return float64(tau) + shift, y1 - 0.25*(y0-y2)*shift
}
