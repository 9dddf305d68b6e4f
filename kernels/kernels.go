// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package kernels provides the public API for generating specialized WGSL
// compute kernels.
//
// A generator takes an operation definition, its attributes, and the concrete
// input shapes, and returns a dispatch-ready ComputeTaskDescriptor: shader
// source with unresolved $0/$1/$2 slots, named tensor bindings, uniform-buffer
// builders, and a dispatch resize function.
//
// Example:
//
//	def := kernels.OperationDef{
//	    SrcTensors: []kernels.TensorDescriptor{{DataType: tensor.Float32}, {DataType: tensor.Float32}},
//	    DstTensors: []kernels.TensorDescriptor{{DataType: tensor.Float32}},
//	}
//	attr := kernels.ConcatAttributes{Axis: tensor.Channels}
//	shapes := []tensor.BHWC{{B: 1, H: 5, W: 2, C: 4}, {B: 1, H: 5, W: 2, C: 4}}
//	desc := kernels.Concat(def, attr, shapes)
package kernels

import (
	"github.com/ember-ml/ember/internal/kernels"
	"github.com/ember-ml/ember/internal/tensor"
)

// Type aliases for public API

// Uint3 is a three-component extent used for workgroup sizes and dispatch
// group counts.
type Uint3 = kernels.Uint3

// TensorDescriptor declares the kind of one tensor binding.
type TensorDescriptor = kernels.TensorDescriptor

// OperationDef declares the source tensor bindings and exactly one
// destination tensor binding of an operation.
type OperationDef = kernels.OperationDef

// TensorBinding associates a binding name used inside generated source with
// the tensor descriptor it refers to.
type TensorBinding = kernels.TensorBinding

// UniformBuffer pairs a uniform declaration with the builder producing its
// byte block.
type UniformBuffer = kernels.UniformBuffer

// UniformsFunc builds the uniform parameter block for the current shapes.
type UniformsFunc = kernels.UniformsFunc

// ResizeFunc computes the workgroup size and dispatch group counts for the
// current shapes.
type ResizeFunc = kernels.ResizeFunc

// ComputeTaskDescriptor is a dispatch-ready description of one generated
// kernel.
type ComputeTaskDescriptor = kernels.ComputeTaskDescriptor

// ConcatAttributes carries the axis along which source tensors are
// concatenated.
type ConcatAttributes = kernels.ConcatAttributes

// Slot names one of the unresolved placeholders in generated shader source.
type Slot = kernels.Slot

// The slots every generated kernel carries.
const (
	SlotUniforms Slot = kernels.SlotUniforms
	SlotBindings Slot = kernels.SlotBindings
	SlotPostOp   Slot = kernels.SlotPostOp
)

// Generator entry points

// Concat builds the task descriptor for the requested concatenation axis.
func Concat(def OperationDef, attr ConcatAttributes, inputShapes []tensor.BHWC) ComputeTaskDescriptor {
	return kernels.Concat(def, attr, inputShapes)
}

// ConcatOutputShape returns the destination shape for concatenating
// inputShapes along axis.
func ConcatOutputShape(axis tensor.Axis, inputShapes []tensor.BHWC) tensor.BHWC {
	return kernels.ConcatOutputShape(axis, inputShapes)
}

// Utility functions

// DivideRoundUp returns ceil(a / b) using integer arithmetic.
func DivideRoundUp(a, b int) int {
	return kernels.DivideRoundUp(a, b)
}

// VectorizedByteSize returns the byte size of a shape's buffer in the packed
// vec4 layout generated kernels index.
func VectorizedByteSize(s tensor.BHWC) int {
	return kernels.VectorizedByteSize(s)
}

// ResolveSlots substitutes slot contents into generated shader source.
func ResolveSlots(source string, slots map[Slot]string) string {
	return kernels.ResolveSlots(source, slots)
}
