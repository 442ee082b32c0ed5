package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Simulator produces a fixed-length trajectory with a single-step integrator.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	observers  []Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run returns exactly cfg.Steps states, the first being x0 itself. Each
// state is passed to every observer in trajectory order before the next
// one is computed. Dt is not validated and divergent states are kept.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	result := &Result{
		States: make([]dynamo.State, 0, cfg.Steps),
		Times:  make([]float64, 0, cfg.Steps),
	}

	x := x0.Clone()
	t := 0.0
	s.record(result, x, t)

	for i := 1; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w at step %d: %w", dynamo.ErrContextCanceled, i, ctx.Err())
		default:
		}

		x = s.integrator.Step(s.dyn, x, t, cfg.Dt)
		t += cfg.Dt
		s.record(result, x, t)
	}

	return result, nil
}

func (s *Simulator) record(result *Result, x dynamo.State, t float64) {
	result.States = append(result.States, x)
	result.Times = append(result.Times, t)
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) validate(x0 dynamo.State, cfg Config) error {
	if cfg.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", dynamo.ErrParameterBounds, cfg.Steps)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: initial state has %d components, system expects %d",
			dynamo.ErrParameterBounds, len(x0), s.dyn.StateDim())
	}
	return nil
}
