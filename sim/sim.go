// Package sim generates synthetic IMU trajectories for exercising the
// motion models and plots the resulting paths.
package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	inertial "github.com/robolab/go-inertial"
	"github.com/robolab/go-inertial/state"
)

// InitCond is the initial state condition of a filter
type InitCond struct {
	state *mat.VecDense
	cov   *mat.SymDense
}

// NewInitCond creates new InitCond and returns it
func NewInitCond(x mat.Vector, cov mat.Symmetric) *InitCond {
	s := &mat.VecDense{}
	s.CloneFromVec(x)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &InitCond{
		state: s,
		cov:   c,
	}
}

// State returns initial state
func (c *InitCond) State() mat.Vector {
	x := mat.NewVecDense(c.state.Len(), nil)
	x.CloneFromVec(c.state)

	return x
}

// Cov returns initial covariance
func (c *InitCond) Cov() mat.Symmetric {
	cov := mat.NewSymDense(c.cov.SymmetricDim(), nil)
	cov.CopySym(c.cov)

	return cov
}

// Source yields the control vector of each simulation step.
type Source interface {
	// Control returns the IMU sample at time t
	Control(t float64) mat.Vector
}

// ControlFunc adapts a plain function to a Source.
type ControlFunc func(t float64) mat.Vector

// Control implements Source.
func (f ControlFunc) Control(t float64) mat.Vector {
	return f(t)
}

// Stationary returns the IMU samples of a robot resting level in the world
// gravity field g: the accelerometer reads the reaction -g, the gyrometer
// reads zero.
func Stationary(g []float64) Source {
	am := []float64{-g[0], -g[1], -g[2]}
	u := state.NewControl(am, []float64{0, 0, 0})

	return ControlFunc(func(t float64) mat.Vector { return u })
}

// Turn returns the IMU samples of a robot spinning level about the vertical
// axis at a constant rate in the world gravity field g. Gravity must point
// along the turn axis for the reaction reading to stay constant.
func Turn(rate float64, g []float64) Source {
	am := []float64{-g[0], -g[1], -g[2]}
	u := state.NewControl(am, []float64{0, 0, rate})

	return ControlFunc(func(t float64) mat.Vector { return u })
}

// Run propagates x0 through m for steps steps of length dt, drawing controls
// from src and perturbations from n (nil means the nominal trajectory). It
// returns the trajectory as a (steps+1) x nx matrix with one state per row,
// the initial state included.
func Run(m inertial.Model, x0 mat.Vector, src Source, n inertial.Noise, dt float64, steps int) (*mat.Dense, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("invalid number of steps: %d", steps)
	}

	nx, _, _ := m.SystemDims()
	if x0 == nil || x0.Len() != nx {
		return nil, fmt.Errorf("invalid initial state: %v", x0)
	}

	traj := mat.NewDense(steps+1, nx, nil)
	x := mat.VecDenseCopyOf(x0)
	traj.SetRow(0, x.RawVector().Data)

	for i := 1; i <= steps; i++ {
		var pert mat.Vector
		if n != nil {
			pert = n.Sample()
		}

		xnext, _, _, err := m.Propagate(x, src.Control(float64(i-1)*dt), pert, dt)
		if err != nil {
			return nil, fmt.Errorf("propagation failed at step %d: %v", i, err)
		}

		x.CopyVec(xnext)
		traj.SetRow(i, x.RawVector().Data)
	}

	return traj, nil
}
