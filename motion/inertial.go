// Package motion implements the robot motion models behind the
// inertial.Model contract: the IMU-driven inertial model and the
// constant-velocity model, selected by Kind at configuration time.
package motion

import (
	"fmt"
	"math"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"

	"github.com/robolab/go-inertial/quat"
	"github.com/robolab/go-inertial/state"
)

// normTol bounds how far the norm of an input orientation quaternion may
// drift from 1 before the call is rejected as a contract violation.
const normTol = 1e-3

// Inertial is the IMU-driven robot motion model. The transition
// x+ = f(x, u, n, dt) is decomposed as
//
//	p+  = p + v*dt
//	q+  = q ** exp((wm - wb + wn)*dt)   renormalized after the product
//	v+  = v + dt*(R(q)*(am - ab + an) + g)
//	ab+ = ab + ar
//	wb+ = wb + wr
//	g+  = g
//
// with u = [am wm] the raw IMU sample and n = [an wn ar wr] the perturbation
// impulse. The model is stateless and safe for concurrent use.
type Inertial struct{}

// NewInertial creates the inertial motion model and returns it.
func NewInertial() *Inertial {
	return &Inertial{}
}

// SystemDims returns the state, control and perturbation dimensions.
func (m *Inertial) SystemDims() (nx, nu, nq int) {
	return state.Dim, state.DimControl, state.DimPerturbation
}

// Propagate moves state x one step of length dt ahead driven by the IMU
// sample u and the perturbation n, which may be nil for the nominal,
// noise-free trajectory. It returns the new state and the transition and
// perturbation Jacobians, allocating a fresh workspace for the assembly.
func (m *Inertial) Propagate(x, u, n mat.Vector, dt float64) (mat.Vector, *mat.Dense, *mat.Dense, error) {
	return m.PropagateInto(NewWorkspace(), x, u, n, dt)
}

// PropagateInto is Propagate reusing the caller-owned workspace ws.
func (m *Inertial) PropagateInto(ws *Workspace, x, u, n mat.Vector, dt float64) (mat.Vector, *mat.Dense, *mat.Dense, error) {
	switch {
	case x == nil || x.Len() != state.Dim:
		return nil, nil, nil, fmt.Errorf("invalid state vector: %v", x)
	case u == nil || u.Len() != state.DimControl:
		return nil, nil, nil, fmt.Errorf("invalid control vector: %v", u)
	case n != nil && n.Len() != state.DimPerturbation:
		return nil, nil, nil, fmt.Errorf("invalid perturbation vector: %v", n)
	case dt < 0:
		return nil, nil, nil, fmt.Errorf("invalid time step: %v", dt)
	}

	if n == nil {
		n = mat.NewVecDense(state.DimPerturbation, nil)
	}

	p, q, v, ab, wb, g := state.Unpack(state.Vec(x))
	am, wm := state.UnpackControl(state.Vec(u))
	an, wn, ar, wr := state.UnpackPerturbation(state.Vec(n))

	if math.Abs(quat.Norm(q)-1) > normTol {
		return nil, nil, nil, fmt.Errorf("non-unit orientation quaternion: %v", q)
	}

	// zero step is an exact identity
	if dt == 0 {
		xnew := mat.NewVecDense(state.Dim, nil)
		xnew.CopyVec(x)
		jx, _ := matrix.NewDenseValIdentity(state.Dim, 1.0)
		jn := mat.NewDense(state.Dim, state.DimPerturbation, nil)

		return xnew, jx, jn, nil
	}

	// bias- and noise-corrected body rates and specific force
	w := []float64{wm[0] - wb[0] + wn[0], wm[1] - wb[1] + wn[1], wm[2] - wb[2] + wn[2]}
	a := []float64{am[0] - ab[0] + an[0], am[1] - ab[1] + an[1], am[2] - ab[2] + an[2]}

	dq := quat.Exp(w, dt)
	qPlus := quat.Prod(q, dq)
	qNew := []float64{qPlus[0], qPlus[1], qPlus[2], qPlus[3]}
	quat.Normalize(qNew)

	ra := quat.Rotate(q, a)
	pNew := []float64{p[0] + v[0]*dt, p[1] + v[1]*dt, p[2] + v[2]*dt}
	vNew := []float64{v[0] + dt*(ra[0]+g[0]), v[1] + dt*(ra[1]+g[1]), v[2] + dt*(ra[2]+g[2])}
	abNew := []float64{ab[0] + ar[0], ab[1] + ar[1], ab[2] + ar[2]}
	wbNew := []float64{wb[0] + wr[0], wb[1] + wr[1], wb[2] + wr[2]}

	xnew := state.New(pNew, qNew, vNew, abNew, wbNew, g)

	// orientation blocks, chained through the renormalization:
	// dq+/dq = N * R(dq), dq+/dwn = N * L(q) * dexp * dt = -dq+/dwb
	normJ := quat.NormalizeJac(qPlus)
	ws.qNewQ.Mul(normJ, quat.ProdRightMat(dq))
	ws.t43.Mul(quat.ProdLeftMat(q), quat.ExpJac(w, dt))
	ws.qNewW.Mul(normJ, ws.t43)
	ws.qNewW.Scale(dt, ws.qNewW)
	ws.negQNewW.Scale(-1, ws.qNewW)

	// velocity blocks: dv+/dq = dt * dRv/dq, dv+/dan = R(q)*dt = -dv+/dab
	ws.vNewQ.Scale(dt, quat.RotateJacQ(q, a))
	ws.rotDt.Scale(dt, quat.RotMat(q))
	ws.negRotDt.Scale(-1, ws.rotDt)

	eye, _ := matrix.NewDenseValIdentity(3, 1.0)
	eyeDt, _ := matrix.NewDenseValIdentity(3, dt)

	jx := mat.NewDense(state.Dim, state.Dim, nil)
	setBlock(jx, state.OffP, state.OffP, eye)
	setBlock(jx, state.OffP, state.OffV, eyeDt)
	setBlock(jx, state.OffQ, state.OffQ, ws.qNewQ)
	setBlock(jx, state.OffQ, state.OffWb, ws.negQNewW)
	setBlock(jx, state.OffV, state.OffQ, ws.vNewQ)
	setBlock(jx, state.OffV, state.OffV, eye)
	setBlock(jx, state.OffV, state.OffAb, ws.negRotDt)
	setBlock(jx, state.OffV, state.OffG, eyeDt)
	setBlock(jx, state.OffAb, state.OffAb, eye)
	setBlock(jx, state.OffWb, state.OffWb, eye)
	setBlock(jx, state.OffG, state.OffG, eye)

	jn := mat.NewDense(state.Dim, state.DimPerturbation, nil)
	setBlock(jn, state.OffV, state.OffAn, ws.rotDt)
	setBlock(jn, state.OffQ, state.OffWn, ws.qNewW)
	setBlock(jn, state.OffAb, state.OffAr, eye)
	setBlock(jn, state.OffWb, state.OffWr, eye)

	return xnew, jx, jn, nil
}
