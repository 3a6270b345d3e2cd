package domain

// Shifts records where back-references were inserted, in the numbering the
// oracle saw when it segmented the note. A line keeps its number until an
// insertion happens above it; each such insertion pushes it down by one.
type Shifts struct {
	after []int
}

// Current translates an original line number to the buffer's present numbering
func (s *Shifts) Current(line int) int {
	shift := 0
	for _, a := range s.after {
		if a < line {
			shift++
		}
	}
	return line + shift
}

// Record notes a line inserted right after the given original line
func (s *Shifts) Record(afterLine int) {
	s.after = append(s.after, afterLine)
}

// Count returns the number of recorded insertions
func (s *Shifts) Count() int {
	return len(s.after)
}
