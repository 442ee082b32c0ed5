package physics

import "github.com/san-kum/attractor/internal/dynamo"

type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz(sigma, rho, beta float64) *Lorenz { return &Lorenz{sigma, rho, beta} }

func (l *Lorenz) StateDim() int { return 3 }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	return dynamo.State{l.sigma * (s[1] - s[0]), s[0]*(l.rho-s[2]) - s[1], s[0]*s[1] - l.beta*s[2]}
}

func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }
