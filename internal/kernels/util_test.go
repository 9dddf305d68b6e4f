package kernels

import (
	"testing"

	"github.com/ember-ml/ember/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestDivideRoundUp(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{0, 4, 0},
		{1, 4, 1},
		{4, 4, 1},
		{5, 4, 2},
		{8, 4, 2},
		{17, 8, 3},
		{9, 4, 3},
		{7, 1, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DivideRoundUp(tt.a, tt.b), "DivideRoundUp(%d, %d)", tt.a, tt.b)
	}
}

func TestInt32ByteBuffer(t *testing.T) {
	buf := int32ByteBuffer([]int{1, 256, -1})
	assert.Equal(t, []byte{
		1, 0, 0, 0,
		0, 1, 0, 0,
		255, 255, 255, 255,
	}, buf)
}

func TestVectorizedByteSize(t *testing.T) {
	// 5 channels pack into 2 vec4 groups of 16 bytes each.
	s := tensor.BHWC{B: 1, H: 3, W: 2, C: 5}
	assert.Equal(t, 1*3*2*2*16, VectorizedByteSize(s))

	// Aligned channels need no padding group.
	s = tensor.BHWC{B: 1, H: 3, W: 2, C: 8}
	assert.Equal(t, 1*3*2*2*16, VectorizedByteSize(s))
}
