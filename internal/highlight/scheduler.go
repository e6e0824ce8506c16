package highlight

// Scheduler orders damage for the processor and keeps the in-flight scan
// in step with edits that land while it is suspended.
//
// While a scan is in flight, lastPosition is the live offset the scan has
// reached and bias is the correction from the tokenizer's coordinates to
// live ones. Scheduler is not safe for concurrent use.
type Scheduler struct {
	q queue

	inFlight     bool
	lastPosition int
	bias         int
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Edit records an edit: the in-flight scan is corrected, pending damage
// is translated, and the edit's own damage is queued. Events with a zero
// delta are ignored; Edit reports whether ev was queued.
func (s *Scheduler) Edit(ev Event) bool {
	if ev.Delta == 0 {
		return false
	}
	if s.inFlight {
		s.correct(ev)
	}
	s.q.translate(ev)
	s.q.push(DamageOf(ev))
	return true
}

// correct adjusts lastPosition and bias for an edit during a scan.
func (s *Scheduler) correct(ev Event) {
	p, d := ev.Position, ev.Delta
	switch {
	case p >= s.lastPosition:
		// The scan has not reached the edit; it will read the new text.
	case d < 0 && s.lastPosition < p-d:
		// The deletion swallowed the scan position.
		s.bias -= s.lastPosition - p
		s.lastPosition = p
	default:
		s.bias += d
		s.lastPosition += d
	}
}

// Schedule queues damage that does not come from an edit.
func (s *Scheduler) Schedule(d Damage) {
	s.q.push(d)
}

// Next dequeues the oldest pending damage.
func (s *Scheduler) Next() (Damage, bool) {
	return s.q.pop()
}

// Pending returns the number of queued regions.
func (s *Scheduler) Pending() int {
	return s.q.len()
}

// PendingDamage returns the queued regions, oldest first.
func (s *Scheduler) PendingDamage() []Damage {
	return s.q.pending()
}

// Clear drops every queued region.
func (s *Scheduler) Clear() {
	s.q.clear()
}

// Begin marks a scan as in flight from pos with no correction.
func (s *Scheduler) Begin(pos int) {
	s.inFlight = true
	s.lastPosition = pos
	s.bias = 0
}

// Advance records the live offset the scan has reached.
func (s *Scheduler) Advance(pos int) {
	s.lastPosition = pos
}

// Finish marks the scan as complete.
func (s *Scheduler) Finish() {
	s.inFlight = false
	s.lastPosition = 0
	s.bias = 0
}

// InFlight reports whether a scan is in flight.
func (s *Scheduler) InFlight() bool {
	return s.inFlight
}

// LastPosition returns the live offset of the in-flight scan.
func (s *Scheduler) LastPosition() int {
	return s.lastPosition
}

// Bias returns the correction added to tokenizer offsets.
func (s *Scheduler) Bias() int {
	return s.bias
}
