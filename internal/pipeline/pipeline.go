// Package pipeline wires integration, normalization, accumulation and color
// mapping into one stateless call from Params to an image.
package pipeline

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/density"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/geom"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/logging"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

type Result struct {
	Image   *image.RGBA
	Grid    *density.Grid
	Bounds  geom.Bounds
	Elapsed time.Duration
}

type Option func(*options)

type options struct {
	logger *slog.Logger
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Run integrates p.Iterations Euler steps of the Lorenz system from
// (1, 1, 1), normalizes the trajectory into [0, p.ResultSize-1], bins x and
// y into a density grid and colors it. Errors are *dynamo.StageError.
func Run(ctx context.Context, p config.Params, opts ...Option) (*Result, error) {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := p.Validate(); err != nil {
		return nil, dynamo.Wrap(dynamo.StageLoadConfig, err)
	}

	start := time.Now()
	dyn := physics.NewLorenz(p.Sigma, p.Rho, p.Beta)
	s := sim.New(dyn, integrators.NewEuler())
	tracker := &geom.Tracker{}
	s.AddObserver(tracker)

	traj, err := s.Run(ctx, dyn.DefaultState(), sim.Config{Dt: p.Dt, Steps: p.Iterations})
	if err != nil {
		return nil, dynamo.Wrap(dynamo.StageIntegrate, err)
	}
	bounds, ok := tracker.Finish()
	if !ok {
		return nil, dynamo.Wrap(dynamo.StageIntegrate, dynamo.ErrEmptyTrajectory)
	}
	o.logger.Debug("trajectory integrated", "points", tracker.Count(), "bounds", bounds.String())
	if bounds.Degenerate() {
		o.logger.Debug("bounds have a zero-extent axis, centring it", "extent", bounds.Extent().String())
	}

	if last := traj.States[len(traj.States)-1]; !last.IsValid() {
		o.logger.Debug("trajectory diverged", "dt", p.Dt, "last", geom.FromState(last).String())
	}

	points := make([]geom.Point, len(traj.States))
	for i, st := range traj.States {
		points[i] = geom.FromState(st)
	}
	points = geom.Normalize(points, bounds, p.ResultSize)

	grid, err := density.Accumulate(points, p.ResultSize)
	if err != nil {
		return nil, dynamo.Wrap(dynamo.StageAccumulate, err)
	}
	o.logger.Log(ctx, logging.LevelTrace, "density accumulated",
		"max_count", grid.Max, "visited", grid.Visited(), "total", grid.Total())

	img := colormap.Render(grid)
	elapsed := time.Since(start)
	o.logger.Debug("image rendered", "size", p.ResultSize, "elapsed", elapsed)

	return &Result{
		Image:   img,
		Grid:    grid,
		Bounds:  bounds,
		Elapsed: elapsed,
	}, nil
}
