// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensors for the VGG feature stack.
//
// # Overview
//
// Tensors are the data flowing between the stages of a FeatureStack. This
// package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting for element-wise operations
//   - Zero-copy reshapes
//   - The Backend interface implemented by backend/cpu
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/vgg/backend/cpu"
//	    "github.com/born-ml/vgg/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // A batch of one RGB 32x32 image
//	    x := tensor.Randn[float32](tensor.Shape{1, 3, 32, 32}, backend)
//
//	    // Per-channel bias via broadcasting
//	    bias := tensor.Ones[float32](tensor.Shape{1, 3, 1, 1}, backend)
//	    y := x.Add(bias)
//	}
//
// # Memory Layout
//
// Tensors are stored row-major. Image tensors use the NCHW layout
// [batch, channels, height, width].
package tensor
