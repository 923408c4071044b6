package cpu

import (
	"testing"

	"github.com/born-ml/vgg/internal/parallel"
	"github.com/born-ml/vgg/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw32(t *testing.T, data []float32, shape ...int) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(tensor.Shape(shape), tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat32(), data)
	return r
}

func TestCPUBackend_Metadata(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())

	seq := NewWithConfig(parallel.Sequential())
	assert.False(t, seq.Parallel().Enabled)
}

func TestCPUBackend_BinarySameShape(t *testing.T) {
	backend := New()
	a := raw32(t, []float32{1, 2, 3, 4}, 2, 2)
	b := raw32(t, []float32{4, 3, 2, 1}, 2, 2)

	assert.Equal(t, []float32{5, 5, 5, 5}, backend.Add(a, b).AsFloat32())
	assert.Equal(t, []float32{-3, -1, 1, 3}, backend.Sub(a, b).AsFloat32())
	assert.Equal(t, []float32{4, 6, 6, 4}, backend.Mul(a, b).AsFloat32())
	assert.Equal(t, []float32{0.25, 2.0 / 3.0, 1.5, 4}, backend.Div(a, b).AsFloat32())

	// Inputs are never written in place.
	assert.Equal(t, []float32{1, 2, 3, 4}, a.AsFloat32())
}

func TestCPUBackend_BinaryBroadcastChannelBias(t *testing.T) {
	backend := New()
	// [1, 2, 2, 2] + [1, 2, 1, 1]
	x := raw32(t, []float32{0, 0, 0, 0, 1, 1, 1, 1}, 1, 2, 2, 2)
	bias := raw32(t, []float32{10, 20}, 1, 2, 1, 1)

	out := backend.Add(x, bias)
	assert.True(t, tensor.Shape{1, 2, 2, 2}.Equal(out.Shape()))
	assert.Equal(t, []float32{10, 10, 10, 10, 21, 21, 21, 21}, out.AsFloat32())
}

func TestCPUBackend_BinaryBroadcastRank(t *testing.T) {
	backend := New()
	a := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := raw32(t, []float32{10, 20, 30}, 3)

	assert.Equal(t, []float32{10, 40, 90, 40, 100, 180}, backend.Mul(a, b).AsFloat32())
}

func TestCPUBackend_BinaryIncompatible(t *testing.T) {
	backend := New()
	a := raw32(t, make([]float32, 12), 3, 4)
	b := raw32(t, make([]float32, 15), 3, 5)

	assert.Panics(t, func() { backend.Add(a, b) })
}

func TestCPUBackend_Scalar(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, -2, 3}, 3)

	assert.Equal(t, []float32{1.5, -1.5, 3.5}, backend.AddScalar(x, float32(0.5)).AsFloat32())
	assert.Equal(t, []float32{2, -4, 6}, backend.MulScalar(x, 2).AsFloat32())
	assert.Panics(t, func() { backend.MulScalar(x, "2") })
}

func TestCPUBackend_Float64(t *testing.T) {
	backend := New()
	a, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(a.AsFloat64(), []float64{1, 2})

	assert.Equal(t, []float64{2, 4}, backend.Add(a, a).AsFloat64())
}

func TestCPUBackend_Reshape(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)

	y := backend.Reshape(x, tensor.Shape{3, 2})
	assert.True(t, tensor.Shape{3, 2}.Equal(y.Shape()))
	assert.Equal(t, x.AsFloat32(), y.AsFloat32())

	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{4, 2}) })
	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{0, 6}) })
}

func TestCPUBackend_ReLU(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{-1, 0, 2.5, -0.1}, 4)

	assert.Equal(t, []float32{0, 0, 2.5, 0}, backend.ReLU(x).AsFloat32())
}
