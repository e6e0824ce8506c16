package highlight

import (
	"fmt"

	"github.com/dshills/recolor/internal/engine/source"
)

// Event is an edit notification. Delta > 0 inserted Delta bytes at
// Position; Delta < 0 deleted -Delta bytes starting at Position.
type Event struct {
	Position int
	Delta    int
}

// String formats the event as +3@4 or -3@4.
func (ev Event) String() string {
	if ev.Delta >= 0 {
		return fmt.Sprintf("+%d@%d", ev.Delta, ev.Position)
	}
	return fmt.Sprintf("%d@%d", ev.Delta, ev.Position)
}

// Damage is a stale region [Pos, End) in live buffer coordinates. A pass
// repairing it resynchronizes only at a restart position at or after End.
type Damage struct {
	Pos int
	End int
}

// DamageOf returns the damage caused by ev.
func DamageOf(ev Event) Damage {
	n := ev.Delta
	if n < 0 {
		n = -n
	}
	return Damage{Pos: ev.Position, End: ev.Position + n}
}

// String formats the damage as [pos,end).
func (d Damage) String() string {
	return fmt.Sprintf("[%d,%d)", d.Pos, d.End)
}

// Translate maps the damage across a later edit.
func (d Damage) Translate(ev Event) Damage {
	pos := source.Adjust(d.Pos, ev.Position, ev.Delta)
	end := source.Adjust(d.End, ev.Position, ev.Delta)
	return Damage{Pos: pos, End: max(end, pos)}
}

// queue is a FIFO of pending damage.
type queue struct {
	items []Damage
	head  int
}

func (q *queue) push(d Damage) {
	q.items = append(q.items, d)
}

func (q *queue) pop() (Damage, bool) {
	if q.head >= len(q.items) {
		return Damage{}, false
	}
	d := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return d, true
}

func (q *queue) len() int {
	return len(q.items) - q.head
}

// translate maps every pending region across ev.
func (q *queue) translate(ev Event) {
	for i := q.head; i < len(q.items); i++ {
		q.items[i] = q.items[i].Translate(ev)
	}
}

func (q *queue) clear() {
	q.items = q.items[:0]
	q.head = 0
}

func (q *queue) pending() []Damage {
	out := make([]Damage, q.len())
	copy(out, q.items[q.head:])
	return out
}
