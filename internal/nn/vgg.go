package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/vgg/internal/tensor"
)

// VGGConfig describes a VGG-style feature stack built from real layers.
//
// Each entry of Widths enables one stage whose two convolutions produce that
// many channels; len(Widths) is the network depth.
type VGGConfig struct {
	InChannels int   // channels of the input image
	Widths     []int // output channels per stage, 1 to MaxStages entries

	KernelSize int // square convolution kernel
	Padding    int // convolution zero padding
	PoolSize   int // square max-pool window
	PoolStride int

	BatchNorm bool    // BatchNorm2D after each activation; placeholders otherwise
	Epsilon   float32 // batch-norm epsilon
	Momentum  float32 // batch-norm running-stat momentum

	Seed int64 // weight init seed; 0 uses the global math/rand source
}

// DefaultVGGConfig returns the classic four-stage configuration for RGB input:
// widths 64/128/256/512, 3x3 "same" convolutions, 2x2 max pooling and batch norm.
func DefaultVGGConfig() VGGConfig {
	return VGGConfig{
		InChannels: 3,
		Widths:     []int{64, 128, 256, 512},
		KernelSize: 3,
		Padding:    1,
		PoolSize:   2,
		PoolStride: 2,
		BatchNorm:  true,
		Epsilon:    1e-5,
		Momentum:   0.1,
	}
}

// Depth returns the number of stages the config enables.
func (c VGGConfig) Depth() int {
	return len(c.Widths)
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig.
func (c VGGConfig) Validate() error {
	if c.InChannels <= 0 {
		return fmt.Errorf("%w: in_channels must be positive, got %d", ErrInvalidConfig, c.InChannels)
	}
	if len(c.Widths) == 0 || len(c.Widths) > MaxStages {
		return fmt.Errorf("%w: depth must be between 1 and %d, got %d", ErrInvalidConfig, MaxStages, len(c.Widths))
	}
	for i, w := range c.Widths {
		if w <= 0 {
			return fmt.Errorf("%w: stage %d width must be positive, got %d", ErrInvalidConfig, i+1, w)
		}
	}
	if c.KernelSize <= 0 {
		return fmt.Errorf("%w: kernel_size must be positive, got %d", ErrInvalidConfig, c.KernelSize)
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w: padding must be non-negative, got %d", ErrInvalidConfig, c.Padding)
	}
	if c.PoolSize <= 0 || c.PoolStride <= 0 {
		return fmt.Errorf("%w: pool size and stride must be positive, got %d/%d", ErrInvalidConfig, c.PoolSize, c.PoolStride)
	}
	if c.BatchNorm {
		if c.Epsilon <= 0 {
			return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidConfig, c.Epsilon)
		}
		if c.Momentum < 0 || c.Momentum > 1 {
			return fmt.Errorf("%w: momentum must be in [0, 1], got %g", ErrInvalidConfig, c.Momentum)
		}
	}
	return nil
}

// NewVGG builds a FeatureStack with cfg.Depth() stages of Conv2D pairs,
// optional BatchNorm2D layers, a shared ReLU and a shared MaxPool2D.
// Slots beyond the depth stay disabled.
//
// Example:
//
//	cfg := nn.DefaultVGGConfig()
//	cfg.Widths = []int{16}
//	stack, err := nn.NewVGG(cfg, cpu.New())
//	out := stack.Forward(input) // [1, 3, 32, 32] -> [1, 16, 16, 16]
func NewVGG[B tensor.Backend](cfg VGGConfig, backend B, opts ...Option) (*FeatureStack[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // weight initialization is not security-critical
	}

	stackCfg := Config[B]{
		Activation: NewReLU[B](),
		Pool:       NewMaxPool2D(cfg.PoolSize, cfg.PoolStride, backend),
	}

	in := cfg.InChannels
	for i, width := range cfg.Widths {
		stage := Stage[B]{
			ConvA: newConv2D(rng, in, width, cfg.KernelSize, cfg.KernelSize, 1, cfg.Padding, true, backend),
			ConvB: newConv2D(rng, width, width, cfg.KernelSize, cfg.KernelSize, 1, cfg.Padding, true, backend),
		}
		if cfg.BatchNorm {
			stage.NormA = NewBatchNorm2D(width, cfg.Epsilon, cfg.Momentum, backend)
			stage.NormB = NewBatchNorm2D(width, cfg.Epsilon, cfg.Momentum, backend)
		}
		stackCfg.Stages[i] = Enabled(stage)
		in = width
	}

	return NewFeatureStack(stackCfg, opts...)
}

// OutputShape returns the shape Forward produces for an input of shape
// input, or an error when a stage would shrink the spatial size below one.
func (c VGGConfig) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(input) != 4 {
		return nil, fmt.Errorf("%w: expected 4D input [N,C,H,W], got %dD", ErrInvalidConfig, len(input))
	}
	if input[1] != c.InChannels {
		return nil, fmt.Errorf("%w: input channels %d != in_channels %d", ErrInvalidConfig, input[1], c.InChannels)
	}

	conv := func(size int) int { return size + 2*c.Padding - c.KernelSize + 1 }

	h, w := input[2], input[3]
	for i := range c.Widths {
		if h = conv(h); h > 0 {
			h = conv(h)
		}
		if w = conv(w); w > 0 {
			w = conv(w)
		}
		if h < c.PoolSize || w < c.PoolSize {
			return nil, fmt.Errorf("%w: stage %d input %dx%d too small for pooling", ErrInvalidConfig, i+1, h, w)
		}
		h = (h-c.PoolSize)/c.PoolStride + 1
		w = (w-c.PoolSize)/c.PoolStride + 1
	}
	return tensor.Shape{input[0], c.Widths[len(c.Widths)-1], h, w}, nil
}
