package noise

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/robolab/go-inertial/state"
)

// NewIMU creates the Gaussian noise of the 12-dim inertial perturbation
// vector n = [an wn ar wr] from the per-axis standard deviations of the
// accelerometer noise, the gyrometer noise and the two bias random walks.
// The covariance is block diagonal: the noise channels are independent.
// It returns error if any standard deviation is negative.
func NewIMU(an, wn, ar, wr float64) (*Gaussian, error) {
	if an < 0 || wn < 0 || ar < 0 || wr < 0 {
		return nil, fmt.Errorf("invalid noise standard deviations: %v %v %v %v", an, wn, ar, wr)
	}

	cov := mat.NewSymDense(state.DimPerturbation, nil)
	for i := 0; i < 3; i++ {
		cov.SetSym(state.OffAn+i, state.OffAn+i, an*an)
		cov.SetSym(state.OffWn+i, state.OffWn+i, wn*wn)
		cov.SetSym(state.OffAr+i, state.OffAr+i, ar*ar)
		cov.SetSym(state.OffWr+i, state.OffWr+i, wr*wr)
	}

	return NewGaussian(make([]float64, state.DimPerturbation), cov)
}
