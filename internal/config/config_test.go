package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/vgg/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, nn.DefaultVGGConfig(), cfg)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
in_channels: 1
widths: [8, 16]
padding: 0
pool:
  stride: 1
batch_norm:
  enabled: false
seed: 42
`))
	require.NoError(t, err)

	want := nn.DefaultVGGConfig()
	want.InChannels = 1
	want.Widths = []int{8, 16}
	want.Padding = 0
	want.PoolStride = 1
	want.BatchNorm = false
	want.Seed = 42
	assert.Equal(t, want, cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{"unknown key", "depth: 3\n", nil},
		{"bad type", "widths: lots\n", nil},
		{"too deep", "widths: [1, 2, 3, 4, 5]\n", nn.ErrInvalidConfig},
		{"bad momentum", "batch_norm:\n  momentum: 3\n", nn.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vgg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("widths: [16]\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{16}, cfg.Widths)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := nn.DefaultVGGConfig()
	cfg.Widths = []int{32, 64}
	cfg.Seed = 3

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "widths:")

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
