// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/born-ml/vgg/backend/cpu"
	"github.com/born-ml/vgg/nn"
	"github.com/born-ml/vgg/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name   string
		module nn.Module[*cpu.Backend]
		input  tensor.Shape
	}{
		{"Conv2D", nn.NewConv2D(3, 4, 3, 3, 1, 1, true, backend), tensor.Shape{1, 3, 6, 6}},
		{"BatchNorm2D", nn.NewBatchNorm2D(3, 1e-5, 0.1, backend), tensor.Shape{2, 3, 4, 4}},
		{"MaxPool2D", nn.NewMaxPool2D(2, 2, backend), tensor.Shape{1, 3, 4, 4}},
		{"ReLU", nn.NewReLU[*cpu.Backend](), tensor.Shape{1, 3, 4, 4}},
		{"Identity", nn.NewIdentity[*cpu.Backend](), tensor.Shape{1, 3, 4, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.module.Forward(tensor.Randn[float32](tt.input, backend))
			assert.NotNil(t, out)
		})
	}
}

func TestFeatureStack_PublicAPI(t *testing.T) {
	backend := cpu.New()
	quiet := nn.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	cfg := nn.Config[*cpu.Backend]{
		Activation: nn.NewReLU[*cpu.Backend](),
		Pool:       nn.NewMaxPool2D(2, 2, backend),
	}
	cfg.Stages[0] = nn.Enabled(nn.Stage[*cpu.Backend]{
		ConvA: nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend),
		ConvB: nn.NewConv2D(16, 16, 3, 3, 1, 1, true, backend),
	})

	stack, err := nn.NewFeatureStack(cfg, quiet)
	require.NoError(t, err)

	out := stack.Forward(tensor.Randn[float32](tensor.Shape{1, 3, 32, 32}, backend))
	assert.Equal(t, tensor.Shape{1, 16, 16, 16}, out.Shape())

	cfg.Stages[2] = nn.Enabled(nn.Stage[*cpu.Backend]{ConvA: nn.NewIdentity[*cpu.Backend]()})
	_, err = nn.NewFeatureStack(cfg, quiet)
	assert.ErrorIs(t, err, nn.ErrStageGap)
}

func TestNewVGG_PublicAPI(t *testing.T) {
	cfg := nn.DefaultVGGConfig()
	cfg.Widths = []int{8, 16}
	cfg.Seed = 1

	stack, err := nn.NewVGG(cfg, cpu.New(), nn.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)
	assert.Equal(t, 2, stack.Depth())
	assert.Positive(t, nn.CountParameters(stack.Parameters()))
}
