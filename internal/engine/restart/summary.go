package restart

// summary holds aggregated metrics for a subtree of gaps.
type summary struct {
	// Count is the number of entries in the subtree.
	Count int

	// Span is the sum of gaps, i.e. the distance from the subtree origin
	// (the entry preceding the subtree) to its last entry.
	Span int
}

// Add combines two adjacent summaries.
func (s summary) Add(other summary) summary {
	return summary{
		Count: s.Count + other.Count,
		Span:  s.Span + other.Span,
	}
}

// IsEmpty reports whether the summary covers no entries.
func (s summary) IsEmpty() bool {
	return s.Count == 0
}
