// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go reference executor for concatenation over
// vectorized buffers.
//
// The CPU executor mirrors the semantics of the generated GPU kernels element
// for element, so it can cross-check GPU results and back environments
// without a WebGPU runtime.
package cpu

import (
	internalcpu "github.com/ember-ml/ember/internal/backend/cpu"
)

// Backend executes operations on the CPU.
type Backend = internalcpu.Backend

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/ember-ml/ember/backend/cpu"
//	    "github.com/ember-ml/ember/kernels"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    out, err := backend.RunConcat(def, attr, shapes, buffers)
//	}
func New() *Backend {
	return internalcpu.New()
}
