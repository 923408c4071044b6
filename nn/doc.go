// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers and the VGG-style feature stack.
//
// # Overview
//
// This package contains:
//   - Operators: Operator, OperatorFunc, Identity
//   - Layers: Conv2D, BatchNorm2D, MaxPool2D
//   - Activations: ReLU
//   - FeatureStack: up to four superblocks, each followed by pooling
//   - NewVGG: a FeatureStack built from a VGGConfig
//
// # Superblock
//
// Every stage of a FeatureStack runs one superblock and then the shared
// pooling operator:
//
//	conv_a -> activation -> norm_a -> conv_b -> activation -> norm_b -> pool
//
// Stage 1 always runs. Stages 2 to 4 run while their slots are enabled.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/vgg/backend/cpu"
//	    "github.com/born-ml/vgg/nn"
//	    "github.com/born-ml/vgg/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    cfg := nn.DefaultVGGConfig()
//	    cfg.Widths = []int{64, 128}
//	    stack, err := nn.NewVGG(cfg, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    stack.Train(false)
//
//	    x := tensor.Randn[float32](tensor.Shape{1, 3, 32, 32}, backend)
//	    features := stack.Forward(x) // [1, 128, 8, 8]
//	}
//
// # Hand-assembled stacks
//
// Stages can also be assembled from arbitrary operators:
//
//	cfg := nn.Config[*cpu.Backend]{
//	    Activation: nn.NewReLU[*cpu.Backend](),
//	    Pool:       nn.NewMaxPool2D(2, 2, backend),
//	}
//	cfg.Stages[0] = nn.Enabled(nn.Stage[*cpu.Backend]{
//	    ConvA: nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend),
//	    ConvB: nn.NewConv2D(16, 16, 3, 3, 1, 1, true, backend),
//	})
//	stack, err := nn.NewFeatureStack(cfg)
package nn
