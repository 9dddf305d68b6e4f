//go:build windows

package webgpu

import (
	"fmt"

	"github.com/ember-ml/ember/internal/kernels"
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
)

// RunTask resolves, compiles, and dispatches one compute-task descriptor and
// reads the destination buffer back. srcData holds one vectorized buffer per
// source binding (kernels.VectorizedByteSize bytes each); postOp fills the $2
// slot and may be empty.
//
// The descriptor's uniform builders and resize function are invoked here with
// the current shapes, so a cached pipeline can be re-dispatched after a shape
// change by calling RunTask again.
func (b *Backend) RunTask(desc kernels.ComputeTaskDescriptor, srcShapes []tensor.BHWC,
	dstShape tensor.BHWC, srcData [][]byte, postOp string) ([]byte, error) {
	if len(srcShapes) != len(desc.SrcTensors) {
		return nil, fmt.Errorf("webgpu: %d source shapes for %d source bindings",
			len(srcShapes), len(desc.SrcTensors))
	}
	if len(srcData) != len(desc.SrcTensors) {
		return nil, fmt.Errorf("webgpu: %d source buffers for %d source bindings",
			len(srcData), len(desc.SrcTensors))
	}
	for i, data := range srcData {
		want := kernels.VectorizedByteSize(srcShapes[i])
		if len(data) != want {
			return nil, fmt.Errorf("webgpu: source %d: buffer is %d bytes, shape %s needs %d",
				i, len(data), srcShapes[i], want)
		}
	}

	source := ResolveTaskSource(desc, postOp)
	shader := b.compileShader(source, source)
	pipeline := b.getOrCreatePipeline(source, shader)

	srcBuffers := make([]*wgpu.Buffer, len(srcData))
	for i, data := range srcData {
		srcBuffers[i] = b.createStorageBuffer(data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		defer srcBuffers[i].Release()
	}

	dstSize := uint64(kernels.VectorizedByteSize(dstShape))
	dstBuffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  dstSize,
	})
	defer dstBuffer.Release()

	dstShapes := []tensor.BHWC{dstShape}

	entries := make([]wgpu.BindGroupEntry, 0, len(srcBuffers)+1+len(desc.UniformBuffers))
	for i, buf := range srcBuffers {
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buf, 0, uint64(len(srcData[i]))))
	}
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(srcBuffers)), dstBuffer, 0, dstSize))

	uniformBase := uint32(len(srcBuffers)) + 1
	for i, u := range desc.UniformBuffers {
		params := u.Data(srcShapes, dstShapes)
		alignedSize := (uint64(len(params)) + 15) &^ 15
		buf := b.createUniformBuffer(params)
		defer buf.Release()
		entries = append(entries, wgpu.BufferBindingEntry(uniformBase+uint32(i), buf, 0, alignedSize))
	}

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	// The workgroup size is baked into the WGSL @workgroup_size attribute;
	// only the group counts feed the dispatch call.
	_, groups := desc.Resize(srcShapes, dstShapes)
	computePass.DispatchWorkgroups(groups.X, groups.Y, groups.Z)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	return b.readBuffer(dstBuffer, dstSize)
}

// RunConcat generates a concatenation descriptor for the given axis and runs
// it in one call.
func (b *Backend) RunConcat(def kernels.OperationDef, attr kernels.ConcatAttributes,
	srcShapes []tensor.BHWC, srcData [][]byte) ([]byte, error) {
	desc := kernels.Concat(def, attr, srcShapes)
	dstShape := kernels.ConcatOutputShape(attr.Axis, srcShapes)
	return b.RunTask(desc, srcShapes, dstShape, srcData, "")
}
