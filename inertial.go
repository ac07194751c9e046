package inertial

import "gonum.org/v1/gonum/mat"

// Model is a robot motion model driven by control readings and random
// perturbations. Implementations are stateless: every input and output of a
// propagation flows through Propagate arguments and return values, so a single
// model value may serve several robot instances concurrently.
type Model interface {
	// SystemDims returns the state, control and perturbation dimensions
	SystemDims() (nx, nu, nq int)
	// Propagate moves state x one step of length dt ahead driven by control u
	// and perturbation n. It returns the new state together with the state
	// transition Jacobian jx = dxnew/dx and the perturbation Jacobian
	// jn = dxnew/dn needed to propagate the state covariance.
	Propagate(x, u, n mat.Vector, dt float64) (xnew mat.Vector, jx, jn *mat.Dense, err error)
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset()
}
