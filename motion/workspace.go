package motion

import "gonum.org/v1/gonum/mat"

// Workspace holds the fixed-size intermediate matrices of the Jacobian
// assembly. A workspace is owned by exactly one caller context at a time:
// concurrent propagations must either use PropagateInto with distinct
// workspaces or Propagate, which allocates a fresh one per call. The returned
// Jacobians never alias workspace storage, so a workspace may be reused
// immediately after a call returns.
type Workspace struct {
	// qNewQ is the orientation transition block dq+/dq (through the
	// renormalization), qNewW the rate sensitivity dq+/dwn = -dq+/dwb.
	qNewQ *mat.Dense
	qNewW *mat.Dense
	// vNewQ is the velocity sensitivity to orientation dv+/dq.
	vNewQ *mat.Dense
	// rotDt is R(q)*dt, negRotDt its negation.
	rotDt    *mat.Dense
	negRotDt *mat.Dense
	negQNewW *mat.Dense
	t43      *mat.Dense
}

// NewWorkspace allocates a workspace for Jacobian assembly.
func NewWorkspace() *Workspace {
	return &Workspace{
		qNewQ:    mat.NewDense(4, 4, nil),
		qNewW:    mat.NewDense(4, 3, nil),
		vNewQ:    mat.NewDense(3, 4, nil),
		rotDt:    mat.NewDense(3, 3, nil),
		negRotDt: mat.NewDense(3, 3, nil),
		negQNewW: mat.NewDense(4, 3, nil),
		t43:      mat.NewDense(4, 3, nil),
	}
}

// setBlock copies src into dst starting at row i, column j.
func setBlock(dst *mat.Dense, i, j int, src mat.Matrix) {
	r, c := src.Dims()
	dst.Slice(i, i+r, j, j+c).(*mat.Dense).Copy(src)
}
