//go:build windows

// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU executor for generated compute tasks.
//
// The executor resolves a descriptor's $0/$1/$2 slots, compiles the WGSL, and
// dispatches with the sizes the descriptor's resize function reports.
//
// Example:
//
//	import (
//	    "github.com/ember-ml/ember/backend/webgpu"
//	    "github.com/ember-ml/ember/kernels"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    out, err := gpu.RunConcat(def, attr, shapes, buffers)
//	}
package webgpu

import (
	internalwebgpu "github.com/ember-ml/ember/internal/backend/webgpu"
	"github.com/ember-ml/ember/kernels"
)

// Backend executes generated compute-task descriptors on a WebGPU device.
type Backend = internalwebgpu.Backend

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available or initialization fails.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}

// ResolveTaskSource substitutes all three slots of a descriptor's shader
// source, producing compilable WGSL.
func ResolveTaskSource(desc kernels.ComputeTaskDescriptor, postOp string) string {
	return internalwebgpu.ResolveTaskSource(desc, postOp)
}
