// Package kalman implements the time update of an EKF built around a motion
// model: it combines the analytic transition Jacobians returned by Propagate
// with the process noise covariance to propagate the state covariance. The
// measurement update belongs to the encompassing filter, not to this package.
package kalman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	inertial "github.com/robolab/go-inertial"
	"github.com/robolab/go-inertial/noise"
)

// Predictor propagates the state and covariance of a robot driven by a
// motion model. A Predictor is owned by a single filter instance; distinct
// robots need distinct Predictors or external synchronization.
type Predictor struct {
	// m is the robot motion model
	m inertial.Model
	// q is the process a.k.a. perturbation noise
	q inertial.Noise
	// p is the state covariance
	p *mat.SymDense
}

// NewPredictor creates a Predictor around motion model m with process noise
// q and initial state covariance cov. A nil q means zero process noise.
// It returns error if the noise or covariance dimensions do not match the
// model.
func NewPredictor(m inertial.Model, q inertial.Noise, cov mat.Symmetric) (*Predictor, error) {
	nx, _, nq := m.SystemDims()
	if nx <= 0 || nq < 0 {
		return nil, fmt.Errorf("invalid model dimensions: [%d x %d]", nx, nq)
	}

	if q != nil {
		if q.Cov().SymmetricDim() != nq {
			return nil, fmt.Errorf("invalid process noise dimension: %d", q.Cov().SymmetricDim())
		}
	} else {
		q, _ = noise.NewZero(nq)
	}

	if cov == nil || cov.SymmetricDim() != nx {
		return nil, fmt.Errorf("invalid state covariance: %v", cov)
	}

	p := mat.NewSymDense(nx, nil)
	p.CopySym(cov)

	return &Predictor{m: m, q: q, p: p}, nil
}

// Predict propagates state x one step of length dt ahead driven by control u
// on the nominal, noise-free trajectory and updates the state covariance as
//
//	P+ = Jx*P*Jx' + Jn*Q*Jn'
//
// It returns the propagated state and a copy of the new covariance.
func (k *Predictor) Predict(x, u mat.Vector, dt float64) (mat.Vector, mat.Symmetric, error) {
	_, _, nq := k.m.SystemDims()

	xnext, jx, jn, err := k.m.Propagate(x, u, mat.NewVecDense(nq, nil), dt)
	if err != nil {
		return nil, nil, fmt.Errorf("state propagation failed: %v", err)
	}

	cov := &mat.Dense{}
	cov.Mul(jx, k.p)
	cov.Mul(cov, jx.T())

	if _, ok := k.q.(*noise.Zero); !ok {
		jnq := &mat.Dense{}
		jnq.Mul(jn, k.q.Cov())
		qcov := &mat.Dense{}
		qcov.Mul(jnq, jn.T())
		cov.Add(cov, qcov)
	}

	// update predictor covariance matrix
	n := k.p.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			k.p.SetSym(i, j, (cov.At(i, j)+cov.At(j, i))/2)
		}
	}

	return xnext, k.Cov(), nil
}

// Model returns the predictor motion model.
func (k *Predictor) Model() inertial.Model {
	return k.m
}

// Noise returns the predictor process noise.
func (k *Predictor) Noise() inertial.Noise {
	return k.q
}

// Cov returns a copy of the predictor state covariance.
func (k *Predictor) Cov() mat.Symmetric {
	cov := mat.NewSymDense(k.p.SymmetricDim(), nil)
	cov.CopySym(k.p)

	return cov
}

// SetCov sets the predictor state covariance to cov.
// It returns error if cov is nil or its dimension does not match the model.
func (k *Predictor) SetCov(cov mat.Symmetric) error {
	if cov == nil || cov.SymmetricDim() != k.p.SymmetricDim() {
		return fmt.Errorf("invalid covariance matrix: %v", cov)
	}

	k.p.CopySym(cov)

	return nil
}
