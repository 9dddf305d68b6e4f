// Slot resolution is pure text assembly and carries no build constraint: it
// is usable (and testable) without a WebGPU runtime.

package webgpu

import (
	"fmt"
	"strings"

	"github.com/ember-ml/ember/internal/kernels"
)

// bindingDeclarations renders the $1 slot: one storage-buffer declaration per
// registered binding, sources first in declaration order, then the
// destination. Binding indices follow the same order.
func bindingDeclarations(desc kernels.ComputeTaskDescriptor) string {
	var sb strings.Builder
	for i, src := range desc.SrcTensors {
		fmt.Fprintf(&sb, "@group(0) @binding(%d) var<storage, read> %s : array<vec4<f32>>;\n",
			i, src.Name)
	}
	fmt.Fprintf(&sb, "@group(0) @binding(%d) var<storage, read_write> %s : array<vec4<f32>>;\n",
		len(desc.SrcTensors), desc.DstTensor.Name)
	return sb.String()
}

// uniformDeclarations renders the $0 slot from the descriptor's uniform
// declarations. Uniform binding indices continue after the tensor bindings.
func uniformDeclarations(desc kernels.ComputeTaskDescriptor) string {
	base := len(desc.SrcTensors) + 1
	var sb strings.Builder
	for i, u := range desc.UniformBuffers {
		fmt.Fprintf(&sb, "@group(0) @binding(%d) %s;\n", base+i, u.Declaration)
	}
	return sb.String()
}

// ResolveTaskSource substitutes all three slots of a descriptor's shader
// source, producing compilable WGSL. postOp fills the $2 per-element
// post-processing slot and may be empty.
func ResolveTaskSource(desc kernels.ComputeTaskDescriptor, postOp string) string {
	return kernels.ResolveSlots(desc.ShaderSource, map[kernels.Slot]string{
		kernels.SlotUniforms: uniformDeclarations(desc),
		kernels.SlotBindings: bindingDeclarations(desc),
		kernels.SlotPostOp:   postOp,
	})
}
