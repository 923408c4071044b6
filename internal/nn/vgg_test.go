package nn

import (
	"testing"

	"github.com/born-ml/vgg/internal/backend/cpu"
	"github.com/born-ml/vgg/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVGGConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*VGGConfig)
		errMsg string
	}{
		{"default", func(*VGGConfig) {}, ""},
		{"no stages", func(c *VGGConfig) { c.Widths = nil }, "depth must be between 1 and 4"},
		{"too many stages", func(c *VGGConfig) { c.Widths = []int{1, 2, 3, 4, 5} }, "depth must be between 1 and 4"},
		{"zero width", func(c *VGGConfig) { c.Widths = []int{8, 0} }, "stage 2 width"},
		{"zero in channels", func(c *VGGConfig) { c.InChannels = 0 }, "in_channels"},
		{"zero kernel", func(c *VGGConfig) { c.KernelSize = 0 }, "kernel_size"},
		{"negative padding", func(c *VGGConfig) { c.Padding = -1 }, "padding"},
		{"zero pool stride", func(c *VGGConfig) { c.PoolStride = 0 }, "pool size and stride"},
		{"bad epsilon", func(c *VGGConfig) { c.Epsilon = 0 }, "epsilon"},
		{"bad momentum", func(c *VGGConfig) { c.Momentum = 2 }, "momentum"},
		{"bad epsilon without batch norm", func(c *VGGConfig) { c.BatchNorm = false; c.Epsilon = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultVGGConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewVGG_Structure(t *testing.T) {
	backend := cpu.New()
	cfg := DefaultVGGConfig()
	cfg.Widths = []int{4, 8, 16}

	stack, err := NewVGG(cfg, backend, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.Equal(t, 3, stack.Depth())

	in := cfg.InChannels
	for i, width := range cfg.Widths {
		s := stack.Stage(i)
		convA := s.ConvA.(*Conv2D[Backend])
		convB := s.ConvB.(*Conv2D[Backend])
		assert.Equal(t, in, convA.InChannels())
		assert.Equal(t, width, convA.OutChannels())
		assert.Equal(t, width, convB.InChannels())
		assert.Equal(t, width, convB.OutChannels())
		assert.IsType(t, &BatchNorm2D[Backend]{}, s.NormA)
		assert.NotSame(t, s.NormA, s.NormB)
		in = width
	}

	// conv pairs (weight + bias) and two batch norms (gamma + beta) per stage
	want := 0
	in = cfg.InChannels
	for _, w := range cfg.Widths {
		want += w*in*9 + w + w*w*9 + w + 4*w
		in = w
	}
	assert.Equal(t, want, CountParameters(stack.Parameters()))
}

func TestNewVGG_WithoutBatchNorm(t *testing.T) {
	cfg := DefaultVGGConfig()
	cfg.Widths = []int{4}
	cfg.BatchNorm = false

	stack, err := NewVGG(cfg, cpu.New(), WithLogger(discardLogger()))
	require.NoError(t, err)

	s := stack.Stage(0)
	assert.True(t, IsIdentity(s.NormA))
	assert.True(t, IsIdentity(s.NormB))
	assert.Len(t, stack.Warnings(), 2)
}

func TestNewVGG_InvalidConfig(t *testing.T) {
	cfg := DefaultVGGConfig()
	cfg.Widths = nil

	_, err := NewVGG(cfg, cpu.New(), WithLogger(discardLogger()))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewVGG_SeedIsDeterministic(t *testing.T) {
	backend := cpu.New()
	cfg := DefaultVGGConfig()
	cfg.Widths = []int{4, 4}
	cfg.Seed = 7

	a, err := NewVGG(cfg, backend, WithLogger(discardLogger()))
	require.NoError(t, err)
	b, err := NewVGG(cfg, backend, WithLogger(discardLogger()))
	require.NoError(t, err)

	pa, pb := a.Parameters(), b.Parameters()
	require.Len(t, pb, len(pa))
	for i := range pa {
		assert.Equal(t, pa[i].Tensor().Data(), pb[i].Tensor().Data(), pa[i].Name())
	}

	cfg.Seed = 8
	c, err := NewVGG(cfg, backend, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.NotEqual(t, pa[0].Tensor().Data(), c.Parameters()[0].Tensor().Data())
}

func TestVGGConfig_OutputShape(t *testing.T) {
	cfg := DefaultVGGConfig()

	shape, err := cfg.OutputShape(tensor.Shape{2, 3, 32, 32})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 512, 2, 2}, shape)

	cfg.Widths = []int{16}
	shape, err = cfg.OutputShape(tensor.Shape{1, 3, 32, 32})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 16, 16, 16}, shape)

	cfg.Padding = 0
	shape, err = cfg.OutputShape(tensor.Shape{1, 3, 32, 32})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 16, 14, 14}, shape)
}

func TestVGGConfig_OutputShapeErrors(t *testing.T) {
	cfg := DefaultVGGConfig()

	_, err := cfg.OutputShape(tensor.Shape{3, 32, 32})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = cfg.OutputShape(tensor.Shape{1, 1, 32, 32})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = cfg.OutputShape(tensor.Shape{1, 3, 8, 8})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "stage 4")
}

func TestNewVGG_ForwardMatchesOutputShape(t *testing.T) {
	backend := cpu.New()
	cfg := DefaultVGGConfig()
	cfg.Widths = []int{4, 8, 8, 16}
	cfg.Seed = 1

	stack, err := NewVGG(cfg, backend, WithLogger(discardLogger()))
	require.NoError(t, err)
	stack.Train(false)

	input := tensor.Shape{2, 3, 16, 16}
	want, err := cfg.OutputShape(input)
	require.NoError(t, err)

	out := stack.Forward(tensor.Randn[float32](input, backend))
	assert.Equal(t, want, out.Shape())
	assert.Equal(t, tensor.Shape{2, 16, 1, 1}, out.Shape())
}
