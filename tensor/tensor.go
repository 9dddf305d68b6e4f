// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public shape and type definitions for the Ember
// kernel-generation framework.
//
// The package defines the value types shared between kernel generators and
// their consumers:
//   - BHWC: a (batch, height, width, channels) tensor extent
//   - Axis: the dimension an operation acts along
//   - DataType: the element type of a tensor binding
package tensor

import (
	"github.com/ember-ml/ember/internal/tensor"
)

// Type aliases for public API

// BHWC describes the logical extent of one tensor as a (batch, height, width,
// channels) tuple.
type BHWC = tensor.BHWC

// Axis identifies the tensor dimension along which an operation acts.
type Axis = tensor.Axis

// Concatenation axes.
const (
	Channels Axis = tensor.Channels
	Width    Axis = tensor.Width
	Height   Axis = tensor.Height
)

// DataType represents runtime type information for tensor elements.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float16 DataType = tensor.Float16
)
