package tensor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend implements the Backend metadata methods; element-wise kernels
// live in the cpu package and are exercised there.
type stubBackend struct{}

func (stubBackend) Add(_, _ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) Sub(_, _ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) Mul(_, _ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) Div(_, _ *RawTensor) *RawTensor { panic("not implemented") }
func (stubBackend) AddScalar(_ *RawTensor, _ any) *RawTensor { panic("not implemented") }
func (stubBackend) MulScalar(_ *RawTensor, _ any) *RawTensor { panic("not implemented") }
func (stubBackend) Conv2D(_, _ *RawTensor, _, _ int) *RawTensor { panic("not implemented") }
func (stubBackend) MaxPool2D(_ *RawTensor, _, _ int) *RawTensor { panic("not implemented") }
func (stubBackend) Reshape(t *RawTensor, shape Shape) *RawTensor { return t.WithShape(shape) }
func (stubBackend) Name() string { return "stub" }
func (stubBackend) Device() Device { return CPU }

func TestDataType(t *testing.T) {
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, "float32", Float32.String())
	assert.Equal(t, "float64", Float64.String())
	assert.Equal(t, "unknown", DataType(42).String())
}

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 3*32*32, Shape{1, 3, 32, 32}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	require.NoError(t, Shape{1, 2, 3}.Validate())
	assert.Error(t, Shape{1, 0, 3}.Validate())
	assert.Error(t, Shape{-1}.Validate())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{3072, 1024, 32, 1}, Shape{1, 3, 32, 32}.ComputeStrides())
	assert.Empty(t, Shape{}.ComputeStrides())
}

func TestShape_NCHW(t *testing.T) {
	n, c, h, w := Shape{2, 3, 4, 5}.NCHW("test")
	assert.Equal(t, []int{2, 3, 4, 5}, []int{n, c, h, w})

	assert.PanicsWithValue(t, "test: expected 4D input [N,C,H,W], got 2D", func() {
		Shape{2, 3}.NCHW("test")
	})
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{"same", Shape{2, 16, 8, 8}, Shape{2, 16, 8, 8}, Shape{2, 16, 8, 8}, false, false},
		{"bias", Shape{2, 16, 8, 8}, Shape{1, 16, 1, 1}, Shape{2, 16, 8, 8}, true, false},
		{"rank", Shape{3, 5}, Shape{5}, Shape{3, 5}, true, false},
		{"incompatible", Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
			assert.Equal(t, tt.broadcast, broadcast)
		})
	}
}

func TestFromSlice(t *testing.T) {
	b := stubBackend{}

	x, err := FromSlice[float32]([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, b)
	require.NoError(t, err)
	assert.Equal(t, Float32, x.DType())
	assert.Equal(t, float32(6), x.At(1, 2))
	assert.Equal(t, "Tensor[float32][2 3] on CPU", x.String())

	_, err = FromSlice[float32]([]float32{1, 2}, Shape{2, 3}, b)
	assert.Error(t, err)
}

func TestTensor_SetAt(t *testing.T) {
	x := Zeros[float64](Shape{2, 2}, stubBackend{})
	x.Set(7, 1, 0)
	assert.Equal(t, []float64{0, 0, 7, 0}, x.Data())

	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })
}

func TestTensor_CloneIsDeep(t *testing.T) {
	x := Ones[float32](Shape{4}, stubBackend{})
	y := x.Clone()
	y.Data()[0] = 9

	assert.Equal(t, float32(1), x.Data()[0])
	assert.Equal(t, float32(9), y.Data()[0])
}

func TestTensor_ReshapeSharesBuffer(t *testing.T) {
	x := Full[float32](Shape{2, 8}, 3, stubBackend{})
	y := x.Reshape(4, 4)

	assert.True(t, Shape{4, 4}.Equal(y.Shape()))
	y.Data()[0] = 5
	assert.Equal(t, float32(5), x.Data()[0])

	assert.Panics(t, func() { x.Reshape(3, 3) })
}

func TestRandnFrom_Deterministic(t *testing.T) {
	b := stubBackend{}
	x := RandnFrom[float32](Shape{3, 5}, rand.New(rand.NewSource(7)), b) //nolint:gosec // test data
	y := RandnFrom[float32](Shape{3, 5}, rand.New(rand.NewSource(7)), b) //nolint:gosec // test data

	assert.Equal(t, x.Data(), y.Data())
	assert.Len(t, x.Data(), 15)
}
