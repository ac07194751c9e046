package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/robolab/go-inertial/motion"
	"github.com/robolab/go-inertial/quat"
	"github.com/robolab/go-inertial/state"
)

var gravity = []float64{0, 0, -9.81}

func restState() *mat.VecDense {
	zero := []float64{0, 0, 0}
	return state.New(zero, quat.Identity(), zero, zero, zero, gravity)
}

func TestInitCond(t *testing.T) {
	assert := assert.New(t)

	x := restState()
	cov := mat.NewSymDense(state.Dim, nil)
	cov.SetSym(0, 0, 0.25)

	ic := NewInitCond(x, cov)
	assert.Equal(mat.Col(nil, 0, x), mat.Col(nil, 0, ic.State()))
	assert.True(mat.Equal(cov, ic.Cov()))

	// the condition owns copies
	x.SetVec(0, 100)
	assert.Equal(0.0, ic.State().AtVec(0))
}

func TestRunStationary(t *testing.T) {
	assert := assert.New(t)

	m := motion.NewInertial()

	traj, err := Run(m, restState(), Stationary(gravity), nil, 0.01, 100)
	assert.NotNil(traj)
	assert.NoError(err)

	rows, cols := traj.Dims()
	assert.Equal(101, rows)
	assert.Equal(state.Dim, cols)

	// a robot at rest goes nowhere
	last := traj.RawRowView(rows - 1)
	assert.InDeltaSlice([]float64{0, 0, 0}, last[state.OffP:state.OffQ], 1e-9)
	assert.InDeltaSlice([]float64{0, 0, 0}, last[state.OffV:state.OffAb], 1e-9)
}

func TestRunTurn(t *testing.T) {
	assert := assert.New(t)

	m := motion.NewInertial()

	// quarter turn: 100 steps of 0.01s at pi/2 rad/s
	traj, err := Run(m, restState(), Turn(math.Pi/2, gravity), nil, 0.01, 100)
	assert.NoError(err)

	rows, _ := traj.Dims()
	last := traj.RawRowView(rows - 1)
	q := last[state.OffQ:state.OffV]

	want := []float64{math.Cos(math.Pi / 4), 0, 0, math.Sin(math.Pi / 4)}
	assert.InDeltaSlice(want, q, 1e-9)
}

func TestRunInvalidInput(t *testing.T) {
	assert := assert.New(t)

	m := motion.NewInertial()

	traj, err := Run(m, restState(), Stationary(gravity), nil, 0.01, 0)
	assert.Nil(traj)
	assert.Error(err)

	traj, err = Run(m, mat.NewVecDense(3, nil), Stationary(gravity), nil, 0.01, 10)
	assert.Nil(traj)
	assert.Error(err)
}

func TestNew2DPlot(t *testing.T) {
	assert := assert.New(t)

	ref := mat.NewDense(3, 2, nil)
	est := mat.NewDense(3, 2, nil)

	plt, err := New2DPlot(ref, est)
	assert.NotNil(plt)
	assert.NoError(err)

	plt, err = New2DPlot(nil, nil)
	assert.Nil(plt)
	assert.Error(err)

	plt, err = New2DPlot(mat.NewDense(3, 1, nil), est)
	assert.Nil(plt)
	assert.Error(err)
}
