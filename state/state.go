// Package state defines the fixed layout of the inertial robot state,
// control and perturbation vectors and the pack/unpack codec over them.
//
// The state vector stacks position, orientation quaternion, velocity,
// accelerometer bias, gyrometer bias and gravity:
//
//	x = [p q v ab wb g], of size 19
//
// The control vector stacks the raw IMU sample:
//
//	u = [am wm], of size 6
//
// The perturbation vector stacks the IMU measurement noises and the bias
// random walk impulses:
//
//	n = [an wn ar wr], of size 12
//
// Unpacked fields are views over the vector's backing array, so writing
// through them mutates the vector; the codec allocates nothing.
package state

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Vector dimensions.
const (
	Dim             = 19
	DimControl      = 6
	DimPerturbation = 12
)

// State vector offsets.
const (
	OffP  = 0
	OffQ  = 3
	OffV  = 7
	OffAb = 10
	OffWb = 13
	OffG  = 16
)

// Control vector offsets.
const (
	OffAm = 0
	OffWm = 3
)

// Perturbation vector offsets.
const (
	OffAn = 0
	OffWn = 3
	OffAr = 6
	OffWr = 9
)

// raw returns the contiguous backing slice of x, checking its length.
// A mismatched length or a strided vector is a programming error, so it
// panics the way gonum/mat panics on shape mismatches.
func raw(x *mat.VecDense, n int, what string) []float64 {
	if x.Len() != n {
		panic(fmt.Sprintf("state: invalid %s vector length %d, expected %d", what, x.Len(), n))
	}
	rv := x.RawVector()
	if rv.Inc != 1 {
		panic(fmt.Sprintf("state: strided %s vector", what))
	}

	return rv.Data
}

// Unpack splits the state vector x into its named fields. The returned
// slices alias the backing array of x.
func Unpack(x *mat.VecDense) (p, q, v, ab, wb, g []float64) {
	d := raw(x, Dim, "state")

	return d[OffP:OffQ], d[OffQ:OffV], d[OffV:OffAb], d[OffAb:OffWb], d[OffWb:OffG], d[OffG:Dim]
}

// Pack writes the named fields into the state vector x.
func Pack(x *mat.VecDense, p, q, v, ab, wb, g []float64) {
	d := raw(x, Dim, "state")

	copy(d[OffP:], p[:3])
	copy(d[OffQ:], q[:4])
	copy(d[OffV:], v[:3])
	copy(d[OffAb:], ab[:3])
	copy(d[OffWb:], wb[:3])
	copy(d[OffG:], g[:3])
}

// New packs the named fields into a freshly allocated state vector.
func New(p, q, v, ab, wb, g []float64) *mat.VecDense {
	x := mat.NewVecDense(Dim, nil)
	Pack(x, p, q, v, ab, wb, g)

	return x
}

// UnpackControl splits the control vector u into the accelerometer and
// gyrometer readings. The returned slices alias the backing array of u.
func UnpackControl(u *mat.VecDense) (am, wm []float64) {
	d := raw(u, DimControl, "control")

	return d[OffAm:OffWm], d[OffWm:DimControl]
}

// NewControl packs the IMU readings into a freshly allocated control vector.
func NewControl(am, wm []float64) *mat.VecDense {
	u := mat.NewVecDense(DimControl, nil)
	d := raw(u, DimControl, "control")
	copy(d[OffAm:], am[:3])
	copy(d[OffWm:], wm[:3])

	return u
}

// UnpackPerturbation splits the perturbation vector n into the measurement
// noises and the bias random walk impulses. The returned slices alias the
// backing array of n.
func UnpackPerturbation(n *mat.VecDense) (an, wn, ar, wr []float64) {
	d := raw(n, DimPerturbation, "perturbation")

	return d[OffAn:OffWn], d[OffWn:OffAr], d[OffAr:OffWr], d[OffWr:DimPerturbation]
}

// NewPerturbation packs the noise channels into a freshly allocated
// perturbation vector.
func NewPerturbation(an, wn, ar, wr []float64) *mat.VecDense {
	n := mat.NewVecDense(DimPerturbation, nil)
	d := raw(n, DimPerturbation, "perturbation")
	copy(d[OffAn:], an[:3])
	copy(d[OffWn:], wn[:3])
	copy(d[OffAr:], ar[:3])
	copy(d[OffWr:], wr[:3])

	return n
}

// Vec adapts an arbitrary mat.Vector to a *mat.VecDense for unpacking. It
// returns the vector itself when it already is one and copies otherwise.
func Vec(x mat.Vector) *mat.VecDense {
	if v, ok := x.(*mat.VecDense); ok && v.RawVector().Inc == 1 {
		return v
	}
	v := mat.NewVecDense(x.Len(), nil)
	v.CopyVec(x)

	return v
}
