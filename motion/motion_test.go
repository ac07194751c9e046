package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert := assert.New(t)

	m, err := New(KindInertial)
	assert.NoError(err)
	assert.IsType(&Inertial{}, m)

	m, err = New(KindConstantVelocity)
	assert.NoError(err)
	assert.IsType(&ConstantVelocity{}, m)

	m, err = New(Kind(42))
	assert.Nil(m)
	assert.Error(err)
}

func TestKindString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("inertial", KindInertial.String())
	assert.Equal("constant-velocity", KindConstantVelocity.String())
	assert.Equal("unknown", Kind(42).String())
}
