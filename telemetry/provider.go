package telemetry

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/robolab/go-inertial/state"
)

// StateProvider adapts the latest filter state and IMU sample to telemetry
// categories. The owning filter driver stores fresh values after each cycle;
// the exporter reads them on its own schedule.
type StateProvider struct {
	mu sync.RWMutex
	x  *mat.VecDense
	u  *mat.VecDense
}

// NewStateProvider creates an empty StateProvider.
func NewStateProvider() *StateProvider {
	return &StateProvider{}
}

// SetState stores the latest state vector.
func (p *StateProvider) SetState(x mat.Vector) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.x == nil {
		p.x = mat.NewVecDense(state.Dim, nil)
	}
	p.x.CopyVec(x)
}

// SetControl stores the latest IMU sample.
func (p *StateProvider) SetControl(u mat.Vector) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.u == nil {
		p.u = mat.NewVecDense(state.DimControl, nil)
	}
	p.u.CopyVec(u)
}

// Values implements Provider.
func (p *StateProvider) Values(c Category) []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.x == nil {
		return nil
	}

	pos, q, v, ab, wb, _ := state.Unpack(p.x)

	switch c {
	case CategoryAttitude:
		return clone(q)
	case CategoryPosition:
		return clone(pos)
	case CategoryVelocity:
		return clone(v)
	case CategoryBias:
		vals := make([]float64, 0, 6)
		vals = append(vals, ab...)
		return append(vals, wb...)
	case CategoryRaw:
		if p.u == nil {
			return nil
		}
		am, wm := state.UnpackControl(p.u)
		vals := make([]float64, 0, 6)
		vals = append(vals, am...)
		return append(vals, wm...)
	}

	return nil
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)

	return out
}
