package nn

import (
	"testing"

	"github.com/born-ml/vgg/internal/backend/cpu"
	"github.com/born-ml/vgg/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Backend = *cpu.CPUBackend

type Tensor = tensor.Tensor[float32, Backend]

// recorder logs the name of every operator call in order.
type recorder struct {
	calls []string
}

// op returns an operator that records name and applies f.
func (r *recorder) op(name string, f func(x *Tensor) *Tensor) OperatorFunc[Backend] {
	return func(x *Tensor) *Tensor {
		r.calls = append(r.calls, name)
		return f(x)
	}
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

func addScalar(v float32) func(x *Tensor) *Tensor {
	return func(x *Tensor) *Tensor { return x.AddScalar(v) }
}

func mulScalar(v float32) func(x *Tensor) *Tensor {
	return func(x *Tensor) *Tensor { return x.MulScalar(v) }
}

func scalarInput(t *testing.T, backend Backend, v float32) *Tensor {
	t.Helper()
	x, err := tensor.FromSlice([]float32{v}, tensor.Shape{1, 1, 1, 1}, backend)
	require.NoError(t, err)
	return x
}

func TestIdentity(t *testing.T) {
	backend := cpu.New()
	x := tensor.Randn[float32](tensor.Shape{2, 3}, backend)

	id := NewIdentity[Backend]()
	assert.Same(t, x, id.Forward(x))
	assert.Empty(t, id.Parameters())
	assert.Equal(t, "Identity()", id.String())
}

func TestIsIdentity(t *testing.T) {
	assert.True(t, IsIdentity[Backend](nil))
	assert.True(t, IsIdentity[Backend](NewIdentity[Backend]()))
	assert.False(t, IsIdentity[Backend](NewReLU[Backend]()))
	assert.False(t, IsIdentity[Backend](OperatorFunc[Backend](func(x *Tensor) *Tensor { return x })))
}

func TestOperatorFunc(t *testing.T) {
	backend := cpu.New()
	double := OperatorFunc[Backend](mulScalar(2))

	out := double.Forward(scalarInput(t, backend, 3))
	assert.Equal(t, []float32{6}, out.Data())
}

func TestReLU_Forward(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5}, backend)
	require.NoError(t, err)

	relu := NewReLU[Backend]()
	assert.Equal(t, []float32{0, 0, 0, 0.5, 2}, relu.Forward(x).Data())
	assert.Nil(t, relu.Parameters())
}

func TestCountParameters(t *testing.T) {
	backend := cpu.New()
	conv := NewConv2D(3, 8, 3, 3, 1, 1, true, backend)

	assert.Equal(t, 8*3*3*3+8, CountParameters(conv.Parameters()))
}
