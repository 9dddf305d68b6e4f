// Package kernels generates specialized WGSL compute kernels for tensor
// operations. Each generator specializes the kernel body to the concrete list
// of input shapes at build time, so a single dispatch covers the whole
// operation without runtime branching beyond what the shapes require.
//
// Generated source carries three named slots that the consumer must resolve
// before compilation:
//   - $0: the uniform variable declaration,
//   - $1: the per-binding storage-buffer declarations,
//   - $2: an optional per-element post-processing snippet.
package kernels

import (
	"strconv"
	"strings"

	"github.com/ember-ml/ember/internal/tensor"
)

// Uint3 is a three-component extent used for workgroup sizes and dispatch
// group counts.
type Uint3 struct {
	X, Y, Z uint32
}

// TensorDescriptor declares the kind of one tensor binding.
type TensorDescriptor struct {
	DataType tensor.DataType
}

// OperationDef declares the source tensor bindings and exactly one destination
// tensor binding of an operation. The source count must agree with the shape
// list handed to the generator.
type OperationDef struct {
	SrcTensors []TensorDescriptor
	DstTensors []TensorDescriptor
}

// TensorBinding associates a binding name used inside generated source with
// the tensor descriptor it refers to. Binding order fixes @binding indices.
type TensorBinding struct {
	Name string
	Desc TensorDescriptor
}

// UniformsFunc builds the uniform parameter block for the current shapes.
// It is pure over its arguments and is re-invoked on every shape change.
type UniformsFunc func(srcShapes, dstShapes []tensor.BHWC) []byte

// ResizeFunc computes the workgroup size and dispatch group counts for the
// current shapes. Pure; re-invoked on every shape change.
type ResizeFunc func(srcShapes, dstShapes []tensor.BHWC) (groupSize, groupCount Uint3)

// UniformBuffer pairs the uniform declaration text (the content of the $0
// slot, minus its @group/@binding decoration) with the builder producing its
// byte block.
type UniformBuffer struct {
	Declaration string
	Data        UniformsFunc
}

// ComputeTaskDescriptor is a dispatch-ready description of one generated
// kernel: the shader source with its slots still unresolved, the ordered
// tensor bindings, the uniform buffers, and the resize function. It is a value
// object, immutable once returned by a generator.
type ComputeTaskDescriptor struct {
	ShaderSource   string
	SrcTensors     []TensorBinding
	DstTensor      TensorBinding
	UniformBuffers []UniformBuffer
	Resize         ResizeFunc
}

// AddSrcTensor appends a named source binding in declaration order.
func (d *ComputeTaskDescriptor) AddSrcTensor(name string, desc TensorDescriptor) {
	d.SrcTensors = append(d.SrcTensors, TensorBinding{Name: name, Desc: desc})
}

// AddDstTensor sets the single destination binding.
func (d *ComputeTaskDescriptor) AddDstTensor(name string, desc TensorDescriptor) {
	d.DstTensor = TensorBinding{Name: name, Desc: desc}
}

// srcTensorName returns the canonical binding name for source operand i.
func srcTensorName(i int) string {
	return "src_tensor" + strconv.Itoa(i)
}

// dstTensorName is the canonical binding name for the destination operand.
const dstTensorName = "dst_tensor"

// Slot names one of the unresolved placeholders in generated shader source.
type Slot string

// The slots every generated kernel carries.
const (
	SlotUniforms Slot = "$0" // uniform variable declaration
	SlotBindings Slot = "$1" // storage-buffer binding declarations
	SlotPostOp   Slot = "$2" // optional per-element post-processing
)

// ResolveSlots substitutes slot contents into generated shader source.
// Slots absent from the map are replaced with the empty string, so a consumer
// without a post-processing snippet can simply omit SlotPostOp.
func ResolveSlots(source string, slots map[Slot]string) string {
	for _, slot := range []Slot{SlotUniforms, SlotBindings, SlotPostOp} {
		source = strings.ReplaceAll(source, string(slot), slots[slot])
	}
	return source
}
