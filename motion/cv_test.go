package motion

import (
	"math"
	"testing"

	"github.com/milosgajdos/matrix"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/robolab/go-inertial/quat"
)

// cvState packs a constant velocity state vector.
func cvState(p, q, v, w []float64) *mat.VecDense {
	x := mat.NewVecDense(cvDim, nil)
	d := x.RawVector().Data
	copy(d[cvOffP:], p)
	copy(d[cvOffQ:], q)
	copy(d[cvOffV:], v)
	copy(d[cvOffW:], w)

	return x
}

func TestConstantVelocityDims(t *testing.T) {
	assert := assert.New(t)

	nx, nu, nq := NewConstantVelocity().SystemDims()
	assert.Equal(cvDim, nx)
	assert.Equal(0, nu)
	assert.Equal(cvDimPerturbation, nq)
}

func TestConstantVelocityPropagate(t *testing.T) {
	assert := assert.New(t)

	m := NewConstantVelocity()
	x := cvState(
		[]float64{0, 0, 0},
		quat.Identity(),
		[]float64{1, 0, 0},
		[]float64{0, 0, math.Pi / 2},
	)

	// one second at 1 m/s along x while yawing 90 degrees
	xnew, _, _, err := m.Propagate(x, nil, nil, 1.0)
	assert.NoError(err)

	out := mat.Col(nil, 0, xnew)
	assert.InDeltaSlice([]float64{1, 0, 0}, out[cvOffP:cvOffQ], 1e-12)
	assert.InDeltaSlice([]float64{math.Cos(math.Pi / 4), 0, 0, math.Sin(math.Pi / 4)}, out[cvOffQ:cvOffV], 1e-12)
	assert.InDeltaSlice([]float64{1, 0, 0}, out[cvOffV:cvOffW], 1e-12)

	// velocity impulses accumulate
	n := mat.NewVecDense(cvDimPerturbation, []float64{0.1, 0, 0, 0, 0, 0.2})
	xnew, _, _, err = m.Propagate(x, nil, n, 1.0)
	assert.NoError(err)
	assert.InDelta(1.1, xnew.AtVec(cvOffV), 1e-12)
	assert.InDelta(math.Pi/2+0.2, xnew.AtVec(cvOffW+2), 1e-12)
}

func TestConstantVelocityZeroStep(t *testing.T) {
	assert := assert.New(t)

	m := NewConstantVelocity()
	x := cvState(
		[]float64{1, 2, 3},
		quat.Identity(),
		[]float64{-1, 0.5, 0},
		[]float64{0.1, 0.2, 0.3},
	)
	n := mat.NewVecDense(cvDimPerturbation, []float64{1, 2, 3, 4, 5, 6})

	xnew, jx, jn, err := m.Propagate(x, nil, n, 0)
	assert.NoError(err)
	assert.Equal(mat.Col(nil, 0, x), mat.Col(nil, 0, xnew))

	eye, _ := matrix.NewDenseValIdentity(cvDim, 1.0)
	assert.True(mat.Equal(eye, jx))
	assert.Equal(make([]float64, cvDim*cvDimPerturbation), jn.RawMatrix().Data)
}

func TestConstantVelocityJacobians(t *testing.T) {
	assert := assert.New(t)

	m := NewConstantVelocity()
	q := []float64{0.7, 0.2, -0.4, 0.5}
	quat.Normalize(q)
	x := cvState(
		[]float64{1.5, -2.0, 0.7},
		q,
		[]float64{0.3, 1.1, -0.4},
		[]float64{0.5, -0.3, 0.8},
	)
	n := mat.NewVecDense(cvDimPerturbation, []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06})
	dt := 0.01

	_, jx, jn, err := m.Propagate(x, nil, n, dt)
	assert.NoError(err)

	numJx := mat.NewDense(cvDim, cvDim, nil)
	fd.Jacobian(numJx, func(y, xs []float64) {
		xnew, _, _, err := m.Propagate(mat.NewVecDense(cvDim, xs), nil, n, dt)
		if err != nil {
			panic(err)
		}
		copy(y, mat.Col(nil, 0, xnew))
	}, mat.Col(nil, 0, x), fdSettings)

	assert.True(mat.EqualApprox(jx, numJx, 1e-6))

	numJn := mat.NewDense(cvDim, cvDimPerturbation, nil)
	fd.Jacobian(numJn, func(y, ns []float64) {
		xnew, _, _, err := m.Propagate(x, nil, mat.NewVecDense(cvDimPerturbation, ns), dt)
		if err != nil {
			panic(err)
		}
		copy(y, mat.Col(nil, 0, xnew))
	}, mat.Col(nil, 0, n), fdSettings)

	assert.True(mat.EqualApprox(jn, numJn, 1e-6))
}

func TestConstantVelocityInvalidInput(t *testing.T) {
	assert := assert.New(t)

	m := NewConstantVelocity()

	_, _, _, err := m.Propagate(mat.NewVecDense(5, nil), nil, nil, 0.01)
	assert.Error(err)

	x := cvState([]float64{0, 0, 0}, quat.Identity(), []float64{0, 0, 0}, []float64{0, 0, 0})
	_, _, _, err = m.Propagate(x, nil, mat.NewVecDense(3, nil), 0.01)
	assert.Error(err)

	_, _, _, err = m.Propagate(x, nil, nil, -1)
	assert.Error(err)
}
