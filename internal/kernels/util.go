package kernels

import (
	"encoding/binary"

	"github.com/ember-ml/ember/internal/tensor"
)

// DivideRoundUp returns ceil(a / b) using integer arithmetic.
// b must be positive; a must be non-negative.
func DivideRoundUp(a, b int) int {
	return (a + b - 1) / b
}

// VectorizedByteSize returns the byte size of a shape's buffer in the packed
// layout generated kernels index: channels grouped 4 per vec4<f32> element,
// the last group zero-padded.
func VectorizedByteSize(s tensor.BHWC) int {
	return s.B * s.H * s.W * DivideRoundUp(s.C, 4) * 16
}

// int32ByteBuffer serializes ints as a flat little-endian sequence of 4-byte
// integers, the layout expected by kernel uniform blocks.
func int32ByteBuffer(params []int) []byte {
	buf := make([]byte, 4*len(params))
	for i, p := range params {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(int32(p)))
	}
	return buf
}
