package score

import "sync"

// DefaultScorer keeps the tally of one session in memory
type DefaultScorer struct {
	mu    sync.Mutex
	total KeyScore
	keys  map[string]*KeyScore
}

func NewScorer() *DefaultScorer {
	return &DefaultScorer{keys: map[string]*KeyScore{}}
}

func (s *DefaultScorer) Record(key string, result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ks, ok := s.keys[key]
	if !ok {
		ks = &KeyScore{}
		s.keys[key] = ks
	}
	for _, c := range []*KeyScore{ks, &s.total} {
		switch result {
		case Hit:
			c.Hits++
		case Miss:
			c.Misses++
		case Wrong:
			c.Wrongs++
		}
	}
}

func (s *DefaultScorer) Score() Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make(map[string]KeyScore, len(s.keys))
	for k, v := range s.keys {
		keys[k] = *v
	}
	return Score{
		Hits:   s.total.Hits,
		Misses: s.total.Misses,
		Wrongs: s.total.Wrongs,
		Keys:   keys,
	}
}
