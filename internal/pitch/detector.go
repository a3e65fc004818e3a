package pitch

// Detector estimates the fundamental of a fixed-length window of
// time-domain samples. Clarity is in [0, 1]; a zero frequency means no pitch.
type Detector interface {
	Size() int
	Detect(samples []float32, sampleRate float64) (frequency, clarity float64)
}
