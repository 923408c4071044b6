package nn

import (
	"testing"

	"github.com/born-ml/vgg/internal/backend/cpu"
	"github.com/born-ml/vgg/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func TestMaxPool2D_Creation(t *testing.T) {
	backend := cpu.New()
	pool := NewMaxPool2D(2, 2, backend)

	assert.Empty(t, pool.Parameters())
	assert.Equal(t, "MaxPool2D(kernel_size=2, stride=2)", pool.String())
	assert.Equal(t, [2]int{16, 16}, pool.ComputeOutputSize(32, 32))

	assert.Panics(t, func() { NewMaxPool2D(0, 2, backend) })
	assert.Panics(t, func() { NewMaxPool2D(2, 0, backend) })
}

func TestMaxPool2D_ForwardValues(t *testing.T) {
	backend := cpu.New()
	pool := NewMaxPool2D(2, 2, backend)

	input := tensor.Zeros[float32](tensor.Shape{1, 1, 4, 4}, backend)
	data := input.Data()
	for i := range data {
		data[i] = float32(i + 1)
	}

	out := pool.Forward(input)
	assert.True(t, tensor.Shape{1, 1, 2, 2}.Equal(out.Shape()))
	assert.Equal(t, []float32{6, 8, 14, 16}, out.Data())
}
