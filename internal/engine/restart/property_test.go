package restart

import (
	"math"
	"slices"
	"testing"

	"pgregory.net/rapid"
)

func (m model) floor(p int) int {
	best := 0
	for _, e := range m {
		if e <= p {
			best = e
		}
	}
	return best
}

func (m model) ceil(p int) (int, bool) {
	for _, e := range m {
		if e >= p {
			return e, true
		}
	}
	return 0, false
}

func (m model) from(p int) []int {
	var out []int
	for _, e := range m {
		if e >= p {
			out = append(out, e)
		}
	}
	return out
}

func TestQueriesMatchModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := New()
		m := model{0}

		steps := rapid.IntRange(1, 200).Draw(t, "steps")
		for range steps {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				p := rapid.IntRange(0, 500).Draw(t, "pos")
				x.Insert(p)
				m = m.insert(p)
			case 1:
				lo := rapid.IntRange(0, 500).Draw(t, "lo")
				hi := lo + rapid.IntRange(0, 40).Draw(t, "len")
				x.RemoveRange(lo, hi)
				m = m.removeRange(lo, hi)
			case 2:
				th := rapid.IntRange(0, 500).Draw(t, "threshold")
				d := rapid.IntRange(-20, 20).Draw(t, "delta")
				x.ShiftFrom(th, d)
				m = m.shiftFrom(th, d)
			default:
				limit := rapid.IntRange(0, 600).Draw(t, "limit")
				x.TrimAfter(limit)
				m = m.removeRange(limit+1, math.MaxInt)
			}
			if err := x.validate(); err != nil {
				t.Fatal(err)
			}
		}

		if got := x.Positions(); !slices.Equal(got, m) {
			t.Fatalf("Positions() = %v, want %v", got, m)
		}
		if x.Len() != len(m) || x.Last() != m[len(m)-1] {
			t.Fatalf("Len() = %d, Last() = %d, want %d, %d", x.Len(), x.Last(), len(m), m[len(m)-1])
		}

		q := rapid.IntRange(-5, 620).Draw(t, "query")
		if got, want := x.Floor(q), m.floor(q); got != want {
			t.Errorf("Floor(%d) = %d, want %d", q, got, want)
		}
		if got, want := x.FloorBefore(q), m.floor(q-1); got != want {
			t.Errorf("FloorBefore(%d) = %d, want %d", q, got, want)
		}
		got, ok := x.Ceil(q)
		want, wantOK := m.ceil(q)
		if got != want || ok != wantOK {
			t.Errorf("Ceil(%d) = (%d, %v), want (%d, %v)", q, got, ok, want, wantOK)
		}
		if got, want := x.Contains(q), slices.Contains(m, q); got != want {
			t.Errorf("Contains(%d) = %v, want %v", q, got, want)
		}
		if got, want := slices.Collect(x.From(q)), m.from(q); !slices.Equal(got, want) {
			t.Errorf("From(%d) = %v, want %v", q, got, want)
		}
	})
}
