package motion

import (
	"fmt"

	inertial "github.com/robolab/go-inertial"
)

// Kind tags the motion model variants.
type Kind int

const (
	// KindInertial is the IMU-driven inertial model.
	KindInertial Kind = iota
	// KindConstantVelocity is the constant velocity model.
	KindConstantVelocity
)

// String implements the Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindInertial:
		return "inertial"
	case KindConstantVelocity:
		return "constant-velocity"
	}

	return "unknown"
}

// New creates the motion model selected by k and returns it.
// It returns error if k does not tag a known model.
func New(k Kind) (inertial.Model, error) {
	switch k {
	case KindInertial:
		return NewInertial(), nil
	case KindConstantVelocity:
		return NewConstantVelocity(), nil
	}

	return nil, fmt.Errorf("unknown motion model kind: %v", k)
}
