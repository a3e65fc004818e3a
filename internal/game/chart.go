package game

// Sequence is the fixed list of notes for one session and a cursor over
// the ones not yet spawned
type Sequence struct {
	Name  string
	notes []Note
	next  int
}

func NewSequence(name string, notes []Note) *Sequence {
	ns := make([]Note, len(notes))
	copy(ns, notes)
	return &Sequence{Name: name, notes: ns}
}

func (s *Sequence) Next() (Note, bool) {
	if s.Exhausted() {
		return Note{}, false
	}
	n := s.notes[s.next]
	s.next++
	return n, true
}

func (s *Sequence) Exhausted() bool {
	return s.next >= len(s.notes)
}

func (s *Sequence) Remaining() int {
	return len(s.notes) - s.next
}

func (s *Sequence) Len() int {
	return len(s.notes)
}

// Notes returns a copy of the full sequence
func (s *Sequence) Notes() []Note {
	ns := make([]Note, len(s.notes))
	copy(ns, s.notes)
	return ns
}

// Rewind returns a fresh cursor over the same notes
func (s *Sequence) Rewind() *Sequence {
	return &Sequence{Name: s.Name, notes: s.notes}
}
