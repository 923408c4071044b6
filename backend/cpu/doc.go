// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col algorithm for convolutions
//   - Max pooling, ReLU and per-channel batch normalization
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/vgg/backend/cpu"
//	    "github.com/born-ml/vgg/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    cfg := nn.DefaultVGGConfig()
//	    stack, err := nn.NewVGG(cfg, backend)
//	}
//
// # Parallelism
//
// Convolution output channels and pooling batch items are spread over
// runtime.NumCPU() goroutines by default. NewWithConfig(SequentialConfig())
// keeps all work on the calling goroutine.
package cpu
