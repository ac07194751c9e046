package motion

import (
	"fmt"
	"math"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"

	"github.com/robolab/go-inertial/quat"
	"github.com/robolab/go-inertial/state"
)

// ConstantVelocity state layout: x = [p q v w], of size 13. The perturbation
// stacks the velocity impulses: n = [vi wi], of size 6. There is no control.
const (
	cvDim             = 13
	cvDimPerturbation = 6

	cvOffP = 0
	cvOffQ = 3
	cvOffV = 7
	cvOffW = 10

	cvOffVi = 0
	cvOffWi = 3
)

// ConstantVelocity is the odometry-free robot motion model: linear and
// angular velocities are constant up to random impulses. The transition is
//
//	p+ = p + v*dt
//	q+ = q ** exp(w*dt)   renormalized after the product
//	v+ = v + vi
//	w+ = w + wi
//
// The model is stateless and safe for concurrent use.
type ConstantVelocity struct{}

// NewConstantVelocity creates the constant velocity motion model and returns it.
func NewConstantVelocity() *ConstantVelocity {
	return &ConstantVelocity{}
}

// SystemDims returns the state, control and perturbation dimensions.
func (m *ConstantVelocity) SystemDims() (nx, nu, nq int) {
	return cvDim, 0, cvDimPerturbation
}

// Propagate moves state x one step of length dt ahead driven by the
// perturbation impulse n, which may be nil. The control u is unused and may
// be nil. It returns the new state and the transition and perturbation
// Jacobians.
func (m *ConstantVelocity) Propagate(x, u, n mat.Vector, dt float64) (mat.Vector, *mat.Dense, *mat.Dense, error) {
	return m.PropagateInto(NewWorkspace(), x, u, n, dt)
}

// PropagateInto is Propagate reusing the caller-owned workspace ws.
func (m *ConstantVelocity) PropagateInto(ws *Workspace, x, u, n mat.Vector, dt float64) (mat.Vector, *mat.Dense, *mat.Dense, error) {
	switch {
	case x == nil || x.Len() != cvDim:
		return nil, nil, nil, fmt.Errorf("invalid state vector: %v", x)
	case n != nil && n.Len() != cvDimPerturbation:
		return nil, nil, nil, fmt.Errorf("invalid perturbation vector: %v", n)
	case dt < 0:
		return nil, nil, nil, fmt.Errorf("invalid time step: %v", dt)
	}

	if n == nil {
		n = mat.NewVecDense(cvDimPerturbation, nil)
	}

	xd := state.Vec(x).RawVector().Data
	p, q, v, w := xd[cvOffP:cvOffQ], xd[cvOffQ:cvOffV], xd[cvOffV:cvOffW], xd[cvOffW:cvDim]
	nd := state.Vec(n).RawVector().Data
	vi, wi := nd[cvOffVi:cvOffWi], nd[cvOffWi:cvDimPerturbation]

	if math.Abs(quat.Norm(q)-1) > normTol {
		return nil, nil, nil, fmt.Errorf("non-unit orientation quaternion: %v", q)
	}

	// zero step is an exact identity
	if dt == 0 {
		xnew := mat.NewVecDense(cvDim, nil)
		xnew.CopyVec(x)
		jx, _ := matrix.NewDenseValIdentity(cvDim, 1.0)
		jn := mat.NewDense(cvDim, cvDimPerturbation, nil)

		return xnew, jx, jn, nil
	}

	dq := quat.Exp(w, dt)
	qPlus := quat.Prod(q, dq)
	qNew := []float64{qPlus[0], qPlus[1], qPlus[2], qPlus[3]}
	quat.Normalize(qNew)

	xnew := mat.NewVecDense(cvDim, nil)
	out := xnew.RawVector().Data
	for i := 0; i < 3; i++ {
		out[cvOffP+i] = p[i] + v[i]*dt
		out[cvOffV+i] = v[i] + vi[i]
		out[cvOffW+i] = w[i] + wi[i]
	}
	copy(out[cvOffQ:], qNew)

	normJ := quat.NormalizeJac(qPlus)
	ws.qNewQ.Mul(normJ, quat.ProdRightMat(dq))
	ws.t43.Mul(quat.ProdLeftMat(q), quat.ExpJac(w, dt))
	ws.qNewW.Mul(normJ, ws.t43)
	ws.qNewW.Scale(dt, ws.qNewW)

	eye, _ := matrix.NewDenseValIdentity(3, 1.0)
	eyeDt, _ := matrix.NewDenseValIdentity(3, dt)

	jx := mat.NewDense(cvDim, cvDim, nil)
	setBlock(jx, cvOffP, cvOffP, eye)
	setBlock(jx, cvOffP, cvOffV, eyeDt)
	setBlock(jx, cvOffQ, cvOffQ, ws.qNewQ)
	setBlock(jx, cvOffQ, cvOffW, ws.qNewW)
	setBlock(jx, cvOffV, cvOffV, eye)
	setBlock(jx, cvOffW, cvOffW, eye)

	jn := mat.NewDense(cvDim, cvDimPerturbation, nil)
	setBlock(jn, cvOffV, cvOffVi, eye)
	setBlock(jn, cvOffW, cvOffWi, eye)

	return xnew, jx, jn, nil
}
