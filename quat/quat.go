// Package quat implements the quaternion kinematics used by the inertial
// motion models: Hamilton composition, the exponential map of a rotation
// increment and frame rotation, each with its analytic Jacobians.
//
// Quaternions are plain []float64 slices of length 4 in w, x, y, z order.
// All functions assume finite input; a quaternion with near-zero norm
// represents no rotation at all and must be renormalized or rejected by the
// caller before use.
package quat

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// small is the squared-angle threshold below which the closed-form sinc
// expressions switch to their Taylor series to avoid dividing by the angle.
const small = 1e-8

// Identity returns the identity quaternion.
func Identity() []float64 {
	return []float64{1, 0, 0, 0}
}

// Norm returns the Euclidean norm of q.
func Norm(q []float64) float64 {
	return floats.Norm(q, 2)
}

// Normalize scales q to unit norm in place.
func Normalize(q []float64) {
	floats.Scale(1/Norm(q), q)
}

// NormalizeJac returns the 4x4 Jacobian of q/|q| with respect to q. The
// motion models chain it through their orientation updates so that the
// transition Jacobian accounts for the renormalization step.
func NormalizeJac(q []float64) *mat.Dense {
	n := Norm(q)
	n3 := n * n * n

	j := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for k := 0; k < 4; k++ {
			v := -q[i] * q[k] / n3
			if i == k {
				v += 1 / n
			}
			j.Set(i, k, v)
		}
	}

	return j
}

// Prod returns the Hamilton product q1 ⊗ q2. The product is associative and
// non-commutative; composing q1 with an incremental rotation q2 yields the
// rotation q2 applied in the local frame of q1.
func Prod(q1, q2 []float64) []float64 {
	w1, x1, y1, z1 := q1[0], q1[1], q1[2], q1[3]
	w2, x2, y2, z2 := q2[0], q2[1], q2[2], q2[3]

	return []float64{
		w1*w2 - x1*x2 - y1*y2 - z1*z2,
		w1*x2 + x1*w2 + y1*z2 - z1*y2,
		w1*y2 - x1*z2 + y1*w2 + z1*x2,
		w1*z2 + x1*y2 - y1*x2 + z1*w2,
	}
}

// ProdLeftMat returns the 4x4 left product matrix L(q) satisfying
// Prod(q, p) = L(q)*p. It is the Jacobian of the composition with respect
// to its right factor.
func ProdLeftMat(q []float64) *mat.Dense {
	w, x, y, z := q[0], q[1], q[2], q[3]

	return mat.NewDense(4, 4, []float64{
		w, -x, -y, -z,
		x, w, -z, y,
		y, z, w, -x,
		z, -y, x, w,
	})
}

// ProdRightMat returns the 4x4 right product matrix R(q) satisfying
// Prod(p, q) = R(q)*p. It is the Jacobian of the composition with respect
// to its left factor.
func ProdRightMat(q []float64) *mat.Dense {
	w, x, y, z := q[0], q[1], q[2], q[3]

	return mat.NewDense(4, 4, []float64{
		w, -x, -y, -z,
		x, w, z, -y,
		y, -z, w, x,
		z, y, -x, w,
	})
}

// Exp maps the angular rate w integrated over dt to the unit quaternion of
// the incremental rotation w*dt. It is exact for all rotation angles and
// falls back to a series expansion near zero angle.
func Exp(w []float64, dt float64) []float64 {
	vx, vy, vz := w[0]*dt, w[1]*dt, w[2]*dt
	a2 := vx*vx + vy*vy + vz*vz

	// sin(a/2)/a with its small-angle series
	var c, sa float64
	if a2 < small {
		c = 1 - a2/8
		sa = 0.5 - a2/48
	} else {
		a := math.Sqrt(a2)
		c = math.Cos(a / 2)
		sa = math.Sin(a/2) / a
	}

	return []float64{c, vx * sa, vy * sa, vz * sa}
}

// ExpJac returns the 4x3 Jacobian of Exp with respect to the integrated
// rotation vector w*dt, using the same series fallback as Exp near zero
// angle.
func ExpJac(w []float64, dt float64) *mat.Dense {
	vx, vy, vz := w[0]*dt, w[1]*dt, w[2]*dt
	a2 := vx*vx + vy*vy + vz*vz

	// sa = sin(a/2)/a, k = d(sa)/da / a = cos(a/2)/(2a^2) - sin(a/2)/a^3
	var sa, k float64
	if a2 < small {
		sa = 0.5 - a2/48
		k = -1.0 / 24
	} else {
		a := math.Sqrt(a2)
		s, c := math.Sincos(a / 2)
		sa = s / a
		k = c/(2*a2) - s/(a2*a)
	}

	return mat.NewDense(4, 3, []float64{
		-vx * sa / 2, -vy * sa / 2, -vz * sa / 2,
		sa + vx*vx*k, vx * vy * k, vx * vz * k,
		vx * vy * k, sa + vy*vy*k, vy * vz * k,
		vx * vz * k, vy * vz * k, sa + vz*vz*k,
	})
}

// RotMat returns the 3x3 rotation matrix of q in the homogeneous form, so
// that RotMat(q)*v == Rotate(q, v) for any q, unit or not. It is also the
// Jacobian of Rotate with respect to the rotated vector.
func RotMat(q []float64) *mat.Dense {
	w, x, y, z := q[0], q[1], q[2], q[3]

	return mat.NewDense(3, 3, []float64{
		w*w + x*x - y*y - z*z, 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), w*w - x*x + y*y - z*z, 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), w*w - x*x - y*y + z*z,
	})
}

// Rotate applies the rotation represented by q to the 3-vector v using the
// homogeneous expression q*v*q', kept consistent with RotMat and RotateJacQ
// away from the unit sphere.
func Rotate(q, v []float64) []float64 {
	w, x, y, z := q[0], q[1], q[2], q[3]

	// (w^2 - qv.qv)*v + 2*(qv.v)*qv + 2*w*(qv x v)
	s := w*w - x*x - y*y - z*z
	d := 2 * (x*v[0] + y*v[1] + z*v[2])

	return []float64{
		s*v[0] + d*x + 2*w*(y*v[2]-z*v[1]),
		s*v[1] + d*y + 2*w*(z*v[0]-x*v[2]),
		s*v[2] + d*z + 2*w*(x*v[1]-y*v[0]),
	}
}

// RotateJacQ returns the 3x4 Jacobian of Rotate(q, v) with respect to q.
func RotateJacQ(q, v []float64) *mat.Dense {
	w, x, y, z := q[0], q[1], q[2], q[3]
	a, b, c := v[0], v[1], v[2]

	// column 0: 2*(w*v + qv × v); columns 1..3:
	// 2*((qv.v)*I + qv*v' - v*qv' - w*[v]x)
	d := x*a + y*b + z*c

	return mat.NewDense(3, 4, []float64{
		2 * (w*a + y*c - z*b), 2 * d, 2 * (x*b - y*a + w*c), 2 * (x*c - z*a - w*b),
		2 * (w*b + z*a - x*c), 2 * (y*a - x*b - w*c), 2 * d, 2 * (y*c - z*b + w*a),
		2 * (w*c + x*b - y*a), 2 * (z*a - x*c + w*b), 2 * (z*b - y*c - w*a), 2 * d,
	})
}
