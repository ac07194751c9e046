package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/robolab/go-inertial/state"
)

func TestZero(t *testing.T) {
	assert := assert.New(t)

	z, err := NewZero(state.DimPerturbation)
	assert.NotNil(z)
	assert.NoError(err)

	s := z.Sample()
	assert.Equal(state.DimPerturbation, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.Equal(0.0, s.AtVec(i))
	}

	assert.Equal(state.DimPerturbation, z.Cov().SymmetricDim())
	assert.Equal(make([]float64, state.DimPerturbation), z.Mean())
	z.Reset()

	z, err = NewZero(-3)
	assert.Nil(z)
	assert.Error(err)
}

func TestGaussian(t *testing.T) {
	assert := assert.New(t)

	cov := mat.NewSymDense(2, []float64{0.25, 0, 0, 0.25})

	g, err := NewGaussian([]float64{0, 0}, cov)
	assert.NotNil(g)
	assert.NoError(err)
	assert.Equal(2, g.Sample().Len())
	assert.Equal([]float64{0, 0}, g.Mean())
	assert.True(mat.Equal(cov, g.Cov()))
	g.Reset()

	// mismatched dimensions
	g, err = NewGaussian([]float64{0}, cov)
	assert.Nil(g)
	assert.Error(err)

	g, err = NewGaussian([]float64{0, 0}, nil)
	assert.Nil(g)
	assert.Error(err)
}

func TestIMU(t *testing.T) {
	assert := assert.New(t)

	g, err := NewIMU(0.02, 0.001, 1e-4, 1e-5)
	assert.NotNil(g)
	assert.NoError(err)

	cov := g.Cov()
	assert.Equal(state.DimPerturbation, cov.SymmetricDim())

	for i := 0; i < 3; i++ {
		assert.InDelta(0.02*0.02, cov.At(state.OffAn+i, state.OffAn+i), 1e-15)
		assert.InDelta(0.001*0.001, cov.At(state.OffWn+i, state.OffWn+i), 1e-15)
		assert.InDelta(1e-8, cov.At(state.OffAr+i, state.OffAr+i), 1e-15)
		assert.InDelta(1e-10, cov.At(state.OffWr+i, state.OffWr+i), 1e-15)
	}

	// channels are independent
	assert.Equal(0.0, cov.At(state.OffAn, state.OffWn))

	assert.Equal(state.DimPerturbation, g.Sample().Len())

	g, err = NewIMU(-0.1, 0.001, 1e-4, 1e-5)
	assert.Nil(g)
	assert.Error(err)
}
