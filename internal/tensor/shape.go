// Package tensor provides the core shape and type definitions for the Ember
// kernel-generation framework.
package tensor

import "fmt"

// BHWC describes the logical extent of one tensor as a (batch, height, width,
// channels) tuple. Values are immutable once constructed; ordered []BHWC lists
// fix operand indexing in generated kernel source.
type BHWC struct {
	B int // batch
	H int // height
	W int // width
	C int // channels
}

// NumElements returns the total number of scalar elements in the tensor.
func (s BHWC) NumElements() int {
	return s.B * s.H * s.W * s.C
}

// Validate checks that all dimensions are positive.
func (s BHWC) Validate() error {
	for i, dim := range [4]int{s.B, s.H, s.W, s.C} {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// String returns the shape in BxHxWxC form, e.g. "1x5x2x3".
func (s BHWC) String() string {
	return fmt.Sprintf("%dx%dx%dx%d", s.B, s.H, s.W, s.C)
}

// Axis identifies the tensor dimension along which an operation acts.
type Axis int

// Concatenation axes.
const (
	Channels Axis = iota
	Width
	Height
)

// String returns a human-readable name for the axis.
func (a Axis) String() string {
	switch a {
	case Channels:
		return "channels"
	case Width:
		return "width"
	case Height:
		return "height"
	default:
		return "unknown"
	}
}
