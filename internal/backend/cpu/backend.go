// Package cpu implements a pure Go reference executor for concatenation over
// vectorized buffers. It mirrors the semantics of the generated GPU kernels
// element for element and backs environments without a WebGPU runtime.
package cpu

import (
	"encoding/binary"
	"math"

	"github.com/ember-ml/ember/internal/tensor"
)

// Backend executes operations on the CPU.
type Backend struct{}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "CPU"
}

// laneOffset returns the byte offset of channel c at position (x, y) in the
// vectorized layout: element z*(w*h) + y*w + x holds channels 4z..4z+3.
func laneOffset(s tensor.BHWC, x, y, c int) int {
	elem := (c/4)*s.W*s.H + y*s.W + x
	return elem*16 + (c%4)*4
}

// lane reads one float32 channel value out of a vectorized buffer.
func lane(s tensor.BHWC, buf []byte, x, y, c int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[laneOffset(s, x, y, c):]))
}

// setLane writes one float32 channel value into a vectorized buffer.
func setLane(s tensor.BHWC, buf []byte, x, y, c int, v float32) {
	binary.LittleEndian.PutUint32(buf[laneOffset(s, x, y, c):], math.Float32bits(v))
}
