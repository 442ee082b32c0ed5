package geom

import "github.com/san-kum/attractor/internal/dynamo"

// Tracker folds a stream of points into their bounding box. The zero value
// is ready to use.
type Tracker struct {
	bounds Bounds
	count  int
}

// Observe grows the box to include p. The first observed point initializes it.
func (t *Tracker) Observe(p Point) {
	if t.count == 0 {
		t.bounds = NewBounds(p)
	} else {
		t.bounds = Expand(t.bounds, p)
	}
	t.count++
}

// OnStep lets a Tracker watch a simulation directly.
func (t *Tracker) OnStep(x dynamo.State, _ float64) {
	t.Observe(FromState(x))
}

func (t *Tracker) Count() int { return t.count }

// Finish returns the final box, or false if nothing was observed.
func (t *Tracker) Finish() (Bounds, bool) {
	return t.bounds, t.count > 0
}
