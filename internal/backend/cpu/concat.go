package cpu

import (
	"fmt"

	"github.com/ember-ml/ember/internal/kernels"
	"github.com/ember-ml/ember/internal/tensor"
)

// RunConcat concatenates the vectorized source buffers along the requested
// axis. It takes the same arguments as the WebGPU executor's RunConcat and
// produces byte-identical destination buffers, so the two can cross-check
// each other.
func (b *Backend) RunConcat(def kernels.OperationDef, attr kernels.ConcatAttributes,
	srcShapes []tensor.BHWC, srcData [][]byte) ([]byte, error) {
	if len(def.SrcTensors) != len(srcShapes) {
		return nil, fmt.Errorf("cpu: %d source bindings for %d source shapes",
			len(def.SrcTensors), len(srcShapes))
	}
	if len(srcData) != len(srcShapes) {
		return nil, fmt.Errorf("cpu: %d source buffers for %d source shapes",
			len(srcData), len(srcShapes))
	}
	for i, data := range srcData {
		want := kernels.VectorizedByteSize(srcShapes[i])
		if len(data) != want {
			return nil, fmt.Errorf("cpu: source %d: buffer is %d bytes, shape %s needs %d",
				i, len(data), srcShapes[i], want)
		}
	}

	dst := kernels.ConcatOutputShape(attr.Axis, srcShapes)
	out := make([]byte, kernels.VectorizedByteSize(dst))

	// Walk the inputs in declaration order, advancing the destination offset
	// along the concat axis; all other coordinates pass through unchanged.
	offset := 0
	for i, shape := range srcShapes {
		for y := 0; y < shape.H; y++ {
			for x := 0; x < shape.W; x++ {
				for c := 0; c < shape.C; c++ {
					v := lane(shape, srcData[i], x, y, c)
					switch attr.Axis {
					case tensor.Channels:
						setLane(dst, out, x, y, offset+c, v)
					case tensor.Width:
						setLane(dst, out, offset+x, y, c, v)
					default:
						setLane(dst, out, x, offset+y, c, v)
					}
				}
			}
		}
		switch attr.Axis {
		case tensor.Channels:
			offset += shape.C
		case tensor.Width:
			offset += shape.W
		default:
			offset += shape.H
		}
	}
	return out, nil
}
