// Package nn implements the layers and the VGG feature stack.
//
// The building blocks are:
//   - Operator: anything mapping a tensor to a tensor
//   - Module: an Operator that owns trainable parameters
//   - Identity: the pass-through placeholder operator
//   - Conv2D, BatchNorm2D, ReLU, MaxPool2D: concrete layers
//   - FeatureStack: up to four conv/activate/normalize superblocks, each followed by pooling
//   - NewVGG: builds a FeatureStack of a requested depth from real layers
package nn

import (
	"github.com/born-ml/vgg/internal/tensor"
)

// Operator is a single tensor-to-tensor step of a network.
//
// Shape validation is the operator's responsibility; operators panic on
// incompatible input, and callers composing operators let those panics
// propagate.
type Operator[B tensor.Backend] interface {
	// Forward computes the operator's output for input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]
}

// OperatorFunc adapts an ordinary function to the Operator interface.
//
//	double := nn.OperatorFunc[Backend](func(x *tensor.Tensor[float32, Backend]) *tensor.Tensor[float32, Backend] {
//	    return x.MulScalar(2)
//	})
type OperatorFunc[B tensor.Backend] func(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

// Forward calls f(input).
func (f OperatorFunc[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return f(input)
}

// Module is an Operator with trainable parameters.
//
// Modules can be composed to build larger architectures:
//
//	conv := nn.NewConv2D(3, 64, 3, 3, 1, 1, true, backend)
//	bn := nn.NewBatchNorm2D(64, 1e-5, 0.1, backend)
//	out := bn.Forward(relu.Forward(conv.Forward(input)))
type Module[B tensor.Backend] interface {
	Operator[B]

	// Parameters returns all trainable parameters of this module.
	// Modules without learnable state (activations, pooling) return an empty slice.
	Parameters() []*Parameter[B]
}

// Trainable is implemented by operators whose behaviour differs between
// training and evaluation, such as BatchNorm2D.
type Trainable interface {
	Train(training bool)
}

// Identity is the placeholder operator: Forward returns its input unchanged.
type Identity[B tensor.Backend] struct{}

// NewIdentity creates an Identity operator.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return &Identity[B]{}
}

// Forward returns input itself, not a copy.
func (*Identity[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input
}

// Parameters returns nil (Identity has no trainable parameters).
func (*Identity[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns "Identity()".
func (*Identity[B]) String() string {
	return "Identity()"
}

// IsIdentity reports whether op is nil or an Identity placeholder.
func IsIdentity[B tensor.Backend](op Operator[B]) bool {
	switch op.(type) {
	case nil, *Identity[B]:
		return true
	default:
		return false
	}
}
