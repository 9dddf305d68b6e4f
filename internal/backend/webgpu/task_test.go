//go:build windows

package webgpu

import (
	"math"
	"testing"

	"github.com/ember-ml/ember/internal/kernels"
	"github.com/ember-ml/ember/internal/tensor"
)

// concatDef builds an OperationDef with n float32 sources and one destination.
func concatDef(n int) kernels.OperationDef {
	srcs := make([]kernels.TensorDescriptor, n)
	for i := range srcs {
		srcs[i] = kernels.TensorDescriptor{DataType: tensor.Float32}
	}
	return kernels.OperationDef{
		SrcTensors: srcs,
		DstTensors: []kernels.TensorDescriptor{{DataType: tensor.Float32}},
	}
}

// packVectorized lays out value(x, y, c) in the vec4-grouped layout generated
// kernels index: element z*(w*h) + y*w + x holds channels 4z..4z+3, with the
// trailing partial group zero-padded.
func packVectorized(t *testing.T, shape tensor.BHWC, value func(x, y, c int) float32) []byte {
	t.Helper()
	depth := kernels.DivideRoundUp(shape.C, 4)
	buf := make([]byte, kernels.VectorizedByteSize(shape))
	for z := 0; z < depth; z++ {
		for y := 0; y < shape.H; y++ {
			for x := 0; x < shape.W; x++ {
				for lane := 0; lane < 4; lane++ {
					c := z*4 + lane
					if c >= shape.C {
						continue
					}
					elem := z*shape.W*shape.H + y*shape.W + x
					bits := math.Float32bits(value(x, y, c))
					offset := elem*16 + lane*4
					buf[offset+0] = byte(bits)
					buf[offset+1] = byte(bits >> 8)
					buf[offset+2] = byte(bits >> 16)
					buf[offset+3] = byte(bits >> 24)
				}
			}
		}
	}
	return buf
}

// unpackVectorized reads value (x, y, c) back out of a vectorized buffer.
func unpackVectorized(t *testing.T, shape tensor.BHWC, buf []byte, x, y, c int) float32 {
	t.Helper()
	elem := (c/4)*shape.W*shape.H + y*shape.W + x
	offset := elem*16 + (c%4)*4
	bits := uint32(buf[offset+0]) |
		uint32(buf[offset+1])<<8 |
		uint32(buf[offset+2])<<16 |
		uint32(buf[offset+3])<<24
	return math.Float32frombits(bits)
}

// runConcat generates and executes a concat over per-input value functions,
// then checks every destination element against expect.
func runConcat(t *testing.T, axis tensor.Axis, shapes []tensor.BHWC,
	values []func(x, y, c int) float32, expect func(x, y, c int) float32) {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}

	backend, err := New()
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	defer backend.Release()

	srcData := make([][]byte, len(shapes))
	for i := range shapes {
		srcData[i] = packVectorized(t, shapes[i], values[i])
	}

	result, err := backend.RunConcat(concatDef(len(shapes)), kernels.ConcatAttributes{Axis: axis}, shapes, srcData)
	if err != nil {
		t.Fatalf("RunConcat failed: %v", err)
	}

	dst := kernels.ConcatOutputShape(axis, shapes)
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			for c := 0; c < dst.C; c++ {
				got := unpackVectorized(t, dst, result, x, y, c)
				want := expect(x, y, c)
				if got != want {
					t.Fatalf("dst(%d,%d,%d) = %f, want %f", x, y, c, got, want)
				}
			}
		}
	}
}

func TestRunConcatChannelsUnaligned(t *testing.T) {
	shapes := []tensor.BHWC{
		{B: 1, H: 5, W: 2, C: 3},
		{B: 1, H: 5, W: 2, C: 5},
	}
	values := []func(x, y, c int) float32{
		func(x, y, c int) float32 { return float32(1000 + 100*y + 10*x + c) },
		func(x, y, c int) float32 { return float32(2000 + 100*y + 10*x + c) },
	}
	runConcat(t, tensor.Channels, shapes, values, func(x, y, c int) float32 {
		if c < 3 {
			return values[0](x, y, c)
		}
		return values[1](x, y, c-3)
	})
}

func TestRunConcatChannelsAligned(t *testing.T) {
	shapes := []tensor.BHWC{
		{B: 1, H: 3, W: 4, C: 4},
		{B: 1, H: 3, W: 4, C: 8},
	}
	values := []func(x, y, c int) float32{
		func(x, y, c int) float32 { return float32(1000 + 100*y + 10*x + c) },
		func(x, y, c int) float32 { return float32(2000 + 100*y + 10*x + c) },
	}
	runConcat(t, tensor.Channels, shapes, values, func(x, y, c int) float32 {
		if c < 4 {
			return values[0](x, y, c)
		}
		return values[1](x, y, c-4)
	})
}

func TestRunConcatWidth(t *testing.T) {
	shapes := []tensor.BHWC{
		{B: 1, H: 2, W: 2, C: 4},
		{B: 1, H: 2, W: 3, C: 4},
		{B: 1, H: 2, W: 4, C: 4},
	}
	values := []func(x, y, c int) float32{
		func(x, y, c int) float32 { return float32(1000 + 100*y + 10*x + c) },
		func(x, y, c int) float32 { return float32(2000 + 100*y + 10*x + c) },
		func(x, y, c int) float32 { return float32(3000 + 100*y + 10*x + c) },
	}
	runConcat(t, tensor.Width, shapes, values, func(x, y, c int) float32 {
		switch {
		case x < 2:
			return values[0](x, y, c)
		case x < 5:
			return values[1](x-2, y, c)
		default:
			return values[2](x-5, y, c)
		}
	})
}

func TestRunConcatHeight(t *testing.T) {
	shapes := []tensor.BHWC{
		{B: 1, H: 2, W: 4, C: 4},
		{B: 1, H: 3, W: 4, C: 4},
	}
	values := []func(x, y, c int) float32{
		func(x, y, c int) float32 { return float32(1000 + 100*y + 10*x + c) },
		func(x, y, c int) float32 { return float32(2000 + 100*y + 10*x + c) },
	}
	runConcat(t, tensor.Height, shapes, values, func(x, y, c int) float32 {
		if y < 2 {
			return values[0](x, y, c)
		}
		return values[1](x, y-2, c)
	})
}

func TestRunTaskValidation(t *testing.T) {
	shapes := []tensor.BHWC{{B: 1, H: 2, W: 2, C: 4}}
	desc := kernels.Concat(concatDef(1), kernels.ConcatAttributes{Axis: tensor.Channels}, shapes)

	// Validation runs before any device work, so a zero backend suffices.
	b := &Backend{}

	if _, err := b.RunTask(desc, shapes, shapes[0], nil, ""); err == nil {
		t.Error("expected error for missing source buffers")
	}
	if _, err := b.RunTask(desc, shapes, shapes[0], [][]byte{make([]byte, 4)}, ""); err == nil {
		t.Error("expected error for undersized source buffer")
	}
	if _, err := b.RunTask(desc, nil, shapes[0], nil, ""); err == nil {
		t.Error("expected error for missing source shapes")
	}
}
