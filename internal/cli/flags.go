package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/vgg/internal/config"
	"github.com/born-ml/vgg/internal/nn"
	"github.com/born-ml/vgg/internal/tensor"
	"github.com/spf13/cobra"
)

// stackFlags are the flags shared by run and describe.
type stackFlags struct {
	configPath string
	depth      int
	widths     []int
	batchNorm  bool
	seed       int64
	input      string
}

func addStackFlags(cmd *cobra.Command, f *stackFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.IntVar(&f.depth, "depth", 0, "Number of stages to keep (1-4); 0 keeps all configured stages")
	fs.IntSliceVar(&f.widths, "widths", nil, "Output channels per stage, e.g. 64,128")
	fs.BoolVar(&f.batchNorm, "batchnorm", true, "Use BatchNorm2D layers instead of placeholders")
	fs.Int64Var(&f.seed, "seed", 0, "Weight and input seed (0 = random)")
	fs.StringVar(&f.input, "input", "1,3,32,32", "Input shape N,C,H,W")
}

// vggConfig resolves the stack configuration: defaults, then the config
// file, then explicitly set flags.
func (f *stackFlags) vggConfig(cmd *cobra.Command) (nn.VGGConfig, error) {
	cfg := nn.DefaultVGGConfig()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nn.VGGConfig{}, err
		}
		cfg = loaded
	}

	fs := cmd.Flags()
	if fs.Changed("widths") {
		cfg.Widths = append([]int(nil), f.widths...)
	}
	if fs.Changed("depth") {
		if f.depth < 1 || f.depth > len(cfg.Widths) {
			return nn.VGGConfig{}, fmt.Errorf("%w: depth %d outside 1..%d", nn.ErrInvalidConfig, f.depth, len(cfg.Widths))
		}
		cfg.Widths = cfg.Widths[:f.depth]
	}
	if fs.Changed("batchnorm") {
		cfg.BatchNorm = f.batchNorm
	}
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}

	if err := cfg.Validate(); err != nil {
		return nn.VGGConfig{}, err
	}
	return cfg, nil
}

// parseShape parses "1,3,32,32" into a 4D shape.
func parseShape(s string) (tensor.Shape, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("input shape %q: expected N,C,H,W", s)
	}
	shape := make(tensor.Shape, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("input shape %q: %w", s, err)
		}
		shape[i] = v
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("input shape %q: %w", s, err)
	}
	return shape, nil
}
