package cpu

import (
	"testing"

	"github.com/ember-ml/ember/internal/kernels"
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// fill packs value(x, y, c) into a fresh vectorized buffer for shape.
func fill(shape tensor.BHWC, value func(x, y, c int) float32) []byte {
	buf := make([]byte, kernels.VectorizedByteSize(shape))
	for y := 0; y < shape.H; y++ {
		for x := 0; x < shape.W; x++ {
			for c := 0; c < shape.C; c++ {
				setLane(shape, buf, x, y, c, value(x, y, c))
			}
		}
	}
	return buf
}

func TestRunConcatChannels(t *testing.T) {
	shapes := []tensor.BHWC{
		{B: 1, H: 2, W: 2, C: 3},
		{B: 1, H: 2, W: 2, C: 5},
	}
	src0 := fill(shapes[0], func(x, y, c int) float32 { return float32(1000 + 100*y + 10*x + c) })
	src1 := fill(shapes[1], func(x, y, c int) float32 { return float32(2000 + 100*y + 10*x + c) })

	out, err := New().RunConcat(concatDef(2), kernels.ConcatAttributes{Axis: tensor.Channels},
		shapes, [][]byte{src0, src1})
	require.NoError(t, err)

	dst := tensor.BHWC{B: 1, H: 2, W: 2, C: 8}
	require.Len(t, out, kernels.VectorizedByteSize(dst))
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			for c := 0; c < dst.C; c++ {
				want := float32(1000 + 100*y + 10*x + c)
				if c >= 3 {
					want = float32(2000 + 100*y + 10*x + c - 3)
				}
				assert.Equal(t, want, lane(dst, out, x, y, c), "dst(%d,%d,%d)", x, y, c)
			}
		}
	}
}

func TestRunConcatWidth(t *testing.T) {
	shapes := []tensor.BHWC{
		{B: 1, H: 2, W: 2, C: 4},
		{B: 1, H: 2, W: 3, C: 4},
	}
	src0 := fill(shapes[0], func(x, y, c int) float32 { return float32(1000 + 100*y + 10*x + c) })
	src1 := fill(shapes[1], func(x, y, c int) float32 { return float32(2000 + 100*y + 10*x + c) })

	out, err := New().RunConcat(concatDef(2), kernels.ConcatAttributes{Axis: tensor.Width},
		shapes, [][]byte{src0, src1})
	require.NoError(t, err)

	dst := tensor.BHWC{B: 1, H: 2, W: 5, C: 4}
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			for c := 0; c < dst.C; c++ {
				want := float32(1000 + 100*y + 10*x + c)
				if x >= 2 {
					want = float32(2000 + 100*y + 10*(x-2) + c)
				}
				assert.Equal(t, want, lane(dst, out, x, y, c), "dst(%d,%d,%d)", x, y, c)
			}
		}
	}
}

func TestRunConcatHeight(t *testing.T) {
	shapes := []tensor.BHWC{
		{B: 1, H: 1, W: 2, C: 4},
		{B: 1, H: 2, W: 2, C: 4},
	}
	src0 := fill(shapes[0], func(x, y, c int) float32 { return float32(1000 + 100*y + 10*x + c) })
	src1 := fill(shapes[1], func(x, y, c int) float32 { return float32(2000 + 100*y + 10*x + c) })

	out, err := New().RunConcat(concatDef(2), kernels.ConcatAttributes{Axis: tensor.Height},
		shapes, [][]byte{src0, src1})
	require.NoError(t, err)

	dst := tensor.BHWC{B: 1, H: 3, W: 2, C: 4}
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			for c := 0; c < dst.C; c++ {
				want := float32(1000 + 100*y + 10*x + c)
				if y >= 1 {
					want = float32(2000 + 100*(y-1) + 10*x + c)
				}
				assert.Equal(t, want, lane(dst, out, x, y, c), "dst(%d,%d,%d)", x, y, c)
			}
		}
	}
}

func TestRunConcatSingleInputIsCopy(t *testing.T) {
	shape := tensor.BHWC{B: 1, H: 3, W: 2, C: 5}
	src := fill(shape, func(x, y, c int) float32 { return float32(100*y + 10*x + c) })

	for _, axis := range []tensor.Axis{tensor.Channels, tensor.Width, tensor.Height} {
		out, err := New().RunConcat(concatDef(1), kernels.ConcatAttributes{Axis: axis},
			[]tensor.BHWC{shape}, [][]byte{src})
		require.NoError(t, err, "axis %s", axis)
		assert.Equal(t, src, out, "axis %s", axis)
	}
}

func TestRunConcatValidation(t *testing.T) {
	shapes := []tensor.BHWC{{B: 1, H: 2, W: 2, C: 4}}
	attr := kernels.ConcatAttributes{Axis: tensor.Channels}

	_, err := New().RunConcat(concatDef(2), attr, shapes, [][]byte{nil})
	assert.Error(t, err)

	_, err = New().RunConcat(concatDef(1), attr, shapes, [][]byte{make([]byte, 4)})
	assert.Error(t, err)

	_, err = New().RunConcat(concatDef(1), attr, shapes, nil)
	assert.Error(t, err)
}
