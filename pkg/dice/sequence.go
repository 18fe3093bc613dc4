package dice

// Sequence is a deterministic Source that replays fixed raw values.
// Each call to IntN(n) returns the next value modulo n. When the values
// run out the sequence starts over. An empty Sequence always returns 0.
type Sequence struct {
	values []int
	pos    int
}

var _ Source = (*Sequence)(nil)

// NewSequence returns a Sequence over values.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) IntN(n int) int {
	if len(s.values) == 0 || n <= 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Used reports how many values have been drawn.
func (s *Sequence) Used() int {
	return s.pos
}
