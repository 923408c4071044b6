// Package config loads VGG feature stack configuration from YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/vgg/internal/nn"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a configuration file. Omitted fields keep
// the values of nn.DefaultVGGConfig.
//
//	in_channels: 3
//	widths: [64, 128]
//	kernel_size: 3
//	padding: 1
//	pool:
//	  size: 2
//	  stride: 2
//	batch_norm:
//	  enabled: true
//	  epsilon: 1e-5
//	  momentum: 0.1
//	seed: 42
type File struct {
	InChannels *int   `yaml:"in_channels"`
	Widths     []int  `yaml:"widths"`
	KernelSize *int   `yaml:"kernel_size"`
	Padding    *int   `yaml:"padding"`
	Pool       *Pool  `yaml:"pool"`
	BatchNorm  *Norm  `yaml:"batch_norm"`
	Seed       *int64 `yaml:"seed,omitempty"`
}

// Pool configures the shared max-pooling operator.
type Pool struct {
	Size   *int `yaml:"size"`
	Stride *int `yaml:"stride"`
}

// Norm configures the batch normalization layers.
type Norm struct {
	Enabled  *bool    `yaml:"enabled"`
	Epsilon  *float32 `yaml:"epsilon"`
	Momentum *float32 `yaml:"momentum"`
}

// Load reads and validates the configuration at path.
func Load(path string) (nn.VGGConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nn.VGGConfig{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nn.VGGConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data over the defaults and validates the result.
// Unknown keys are rejected. Empty input yields the defaults.
func Parse(data []byte) (nn.VGGConfig, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nn.VGGConfig{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := f.Apply(nn.DefaultVGGConfig())
	if err := cfg.Validate(); err != nil {
		return nn.VGGConfig{}, err
	}
	return cfg, nil
}

// Apply overlays the fields set in f onto base.
func (f File) Apply(base nn.VGGConfig) nn.VGGConfig {
	cfg := base
	setIf(&cfg.InChannels, f.InChannels)
	if f.Widths != nil {
		cfg.Widths = append([]int(nil), f.Widths...)
	}
	setIf(&cfg.KernelSize, f.KernelSize)
	setIf(&cfg.Padding, f.Padding)
	if f.Pool != nil {
		setIf(&cfg.PoolSize, f.Pool.Size)
		setIf(&cfg.PoolStride, f.Pool.Stride)
	}
	if f.BatchNorm != nil {
		setIf(&cfg.BatchNorm, f.BatchNorm.Enabled)
		setIf(&cfg.Epsilon, f.BatchNorm.Epsilon)
		setIf(&cfg.Momentum, f.BatchNorm.Momentum)
	}
	setIf(&cfg.Seed, f.Seed)
	return cfg
}

// Marshal encodes cfg in the File layout.
func Marshal(cfg nn.VGGConfig) ([]byte, error) {
	f := File{
		InChannels: &cfg.InChannels,
		Widths:     cfg.Widths,
		KernelSize: &cfg.KernelSize,
		Padding:    &cfg.Padding,
		Pool:       &Pool{Size: &cfg.PoolSize, Stride: &cfg.PoolStride},
		BatchNorm:  &Norm{Enabled: &cfg.BatchNorm, Epsilon: &cfg.Epsilon, Momentum: &cfg.Momentum},
	}
	if cfg.Seed != 0 {
		f.Seed = &cfg.Seed
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
