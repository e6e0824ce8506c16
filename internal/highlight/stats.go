package highlight

import "sync/atomic"

// counters are updated by the processor and read without its lock.
type counters struct {
	edits   atomic.Uint64
	passes  atomic.Uint64
	tokens  atomic.Uint64
	resyncs atomic.Uint64
	faults  atomic.Uint64

	lastTokens atomic.Int64
	lastStart  atomic.Int64
	lastEnd    atomic.Int64
}

// Stats contains processing statistics.
type Stats struct {
	// Edits is the number of buffer changes reported.
	Edits uint64

	// Passes is the number of completed passes, faulted ones included.
	Passes uint64

	// Tokens is the total number of tokens lexed.
	Tokens uint64

	// Resyncs is the number of passes that stopped at a known restart
	// position before the end of the buffer.
	Resyncs uint64

	// Faults is the number of passes aborted by a tokenizer error.
	Faults uint64

	// LastPassTokens is the number of tokens lexed by the last completed
	// pass.
	LastPassTokens int

	// LastWindowStart and LastWindowEnd bound the region re-lexed by the
	// last completed pass.
	LastWindowStart int
	LastWindowEnd   int

	// Pending is the number of queued damage regions.
	Pending int

	// InFlight reports a pass suspended mid-scan.
	InFlight bool

	// RestartPositions is the size of the restart index, origin included.
	RestartPositions int
}

// Stats returns processing statistics.
func (pr *Processor) Stats() Stats {
	return Stats{
		Edits:            pr.stats.edits.Load(),
		Passes:           pr.stats.passes.Load(),
		Tokens:           pr.stats.tokens.Load(),
		Resyncs:          pr.stats.resyncs.Load(),
		Faults:           pr.stats.faults.Load(),
		LastPassTokens:   int(pr.stats.lastTokens.Load()),
		LastWindowStart:  int(pr.stats.lastStart.Load()),
		LastWindowEnd:    int(pr.stats.lastEnd.Load()),
		Pending:          pr.sched.Pending(),
		InFlight:         pr.cur != nil,
		RestartPositions: pr.index.Len(),
	}
}
