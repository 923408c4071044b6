// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"log/slog"

	"github.com/born-ml/vgg/internal/nn"
	"github.com/born-ml/vgg/internal/tensor"
)

// MaxStages is the number of stage slots in a FeatureStack.
const MaxStages = nn.MaxStages

// Configuration errors.
var (
	ErrStageGap      = nn.ErrStageGap
	ErrMissingConv   = nn.ErrMissingConv
	ErrInvalidConfig = nn.ErrInvalidConfig
)

// Stage holds the four operators of one superblock.
type Stage[B tensor.Backend] = nn.Stage[B]

// StageSlot is either Disabled or Enabled with a Stage.
type StageSlot[B tensor.Backend] = nn.StageSlot[B]

// Enabled returns a slot that runs stage.
func Enabled[B tensor.Backend](stage Stage[B]) StageSlot[B] {
	return nn.Enabled(stage)
}

// Disabled returns a slot that ends the network before it.
func Disabled[B tensor.Backend]() StageSlot[B] {
	return nn.Disabled[B]()
}

// Config describes a FeatureStack.
type Config[B tensor.Backend] = nn.Config[B]

// FeatureStack is a VGG-style feature extractor of up to MaxStages stages.
type FeatureStack[B tensor.Backend] = nn.FeatureStack[B]

// Observer receives per-stage and per-forward timings.
type Observer = nn.Observer

// Option configures a FeatureStack.
type Option = nn.Option

// WithLogger sets the logger used by the stack.
func WithLogger(logger *slog.Logger) Option {
	return nn.WithLogger(logger)
}

// WithObserver attaches an Observer.
func WithObserver(observer Observer) Option {
	return nn.WithObserver(observer)
}

// NewFeatureStack validates cfg and builds a FeatureStack.
//
// It returns ErrStageGap if an enabled slot follows a disabled one and
// ErrMissingConv if an enabled stage has no ConvA.
func NewFeatureStack[B tensor.Backend](cfg Config[B], opts ...Option) (*FeatureStack[B], error) {
	return nn.NewFeatureStack(cfg, opts...)
}

// VGGConfig describes a FeatureStack built from real layers.
type VGGConfig = nn.VGGConfig

// DefaultVGGConfig returns the classic four-stage configuration for RGB input.
func DefaultVGGConfig() VGGConfig {
	return nn.DefaultVGGConfig()
}

// NewVGG builds a FeatureStack from cfg.
//
// Example:
//
//	cfg := nn.DefaultVGGConfig()
//	cfg.Widths = []int{16}
//	stack, err := nn.NewVGG(cfg, cpu.New())
//	out := stack.Forward(input) // [1, 3, 32, 32] -> [1, 16, 16, 16]
func NewVGG[B tensor.Backend](cfg VGGConfig, backend B, opts ...Option) (*FeatureStack[B], error) {
	return nn.NewVGG(cfg, backend, opts...)
}
