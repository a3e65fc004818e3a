package score

// Result is the outcome of one targeted note
type Result int

const (
	Hit Result = iota
	Miss
	Wrong // a wrong letter was heard; the note can still be hit or missed
)

type Scorer interface {
	Record(key string, result Result)
	Score() Score
}

type Score struct {
	Hits, Misses, Wrongs int
	Keys                 map[string]KeyScore
}

type KeyScore struct {
	Hits, Misses, Wrongs int
}

// Judged counts notes that were resolved either way
func (s Score) Judged() int {
	return s.Hits + s.Misses
}

// Accuracy is hits over resolved notes, zero before anything resolved
func (s Score) Accuracy() float64 {
	if s.Judged() == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Judged())
}
