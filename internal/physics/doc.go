// Package physics provides the dynamical system behind the renderer.
//
// [Lorenz] implements [dynamo.System] with the three Lorenz equations
//
//	dx/dt = sigma * (y - x)
//	dy/dt = x * (rho - z) - y
//	dz/dt = x * y - beta * z
//
// Coefficients are fixed at construction:
//
//	dyn := physics.NewLorenz(10, 99.96, 8.0/3.0)
package physics
