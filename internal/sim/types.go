package sim

import "github.com/san-kum/attractor/internal/dynamo"

type Observer interface {
	OnStep(x dynamo.State, t float64)
}

type Config struct {
	Dt    float64
	Steps int
}

type Result struct {
	States []dynamo.State
	Times  []float64
}
