package nn

import (
	"fmt"

	"github.com/born-ml/vgg/internal/tensor"
)

// BatchNormBackend is an interface for backends that support per-channel
// batch normalization of NCHW tensors.
type BatchNormBackend interface {
	ChannelMoments(x *tensor.RawTensor) (mean, variance *tensor.RawTensor)
	BatchNorm2D(x, mean, variance, gamma, beta *tensor.RawTensor, eps float64) *tensor.RawTensor
}

// BatchNorm2D applies batch normalization over the channel axis of an
// [N, C, H, W] input.
//
// Formula: y = gamma * (x - mean) / sqrt(var + eps) + beta
//
// In training mode mean and var are the statistics of the current batch
// (biased variance) and the running estimates are updated:
//
//	running_mean = (1 - momentum) * running_mean + momentum * mean
//	running_var  = (1 - momentum) * running_var  + momentum * unbiased_var
//
// In evaluation mode the running estimates are used instead. New layers
// start in training mode.
//
// Training-mode Forward mutates the running statistics and is not safe for
// concurrent use.
type BatchNorm2D[B tensor.Backend] struct {
	Gamma    *Parameter[B] // learnable scale [C]
	Beta     *Parameter[B] // learnable shift [C]
	Epsilon  float32
	Momentum float32

	numFeatures int
	runningMean *tensor.Tensor[float32, B]
	runningVar  *tensor.Tensor[float32, B]
	training    bool
	backend     B
}

// NewBatchNorm2D creates a BatchNorm2D over numFeatures channels.
//
// Gamma starts at ones, beta at zeros, running mean at zeros and running
// variance at ones. Typical values are epsilon=1e-5 and momentum=0.1.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, epsilon, momentum float32, backend B) *BatchNorm2D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid number of features %d", numFeatures))
	}
	if epsilon <= 0 {
		panic(fmt.Sprintf("batchnorm2d: epsilon must be positive, got %g", epsilon))
	}
	if momentum < 0 || momentum > 1 {
		panic(fmt.Sprintf("batchnorm2d: momentum must be in [0, 1], got %g", momentum))
	}

	shape := tensor.Shape{numFeatures}
	return &BatchNorm2D[B]{
		Gamma:       NewParameter("batchnorm2d.gamma", tensor.Ones[float32](shape, backend)),
		Beta:        NewParameter("batchnorm2d.beta", tensor.Zeros[float32](shape, backend)),
		Epsilon:     epsilon,
		Momentum:    momentum,
		numFeatures: numFeatures,
		runningMean: tensor.Zeros[float32](shape, backend),
		runningVar:  tensor.Ones[float32](shape, backend),
		training:    true,
		backend:     backend,
	}
}

// Forward normalizes input per channel.
//
// Panics if input is not [N, numFeatures, H, W] or the backend does not
// implement BatchNormBackend.
func (b *BatchNorm2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	n, c, h, w := input.Shape().NCHW("batchnorm2d")
	if c != b.numFeatures {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", c, b.numFeatures))
	}

	bn, ok := any(b.backend).(BatchNormBackend)
	if !ok {
		panic("BatchNorm2D: backend must implement ChannelMoments and BatchNorm2D operations")
	}

	mean, variance := b.runningMean.Raw(), b.runningVar.Raw()
	if b.training {
		mean, variance = bn.ChannelMoments(input.Raw())
		b.updateRunningStats(mean, variance, n*h*w)
	}

	out := bn.BatchNorm2D(input.Raw(), mean, variance,
		b.Gamma.Tensor().Raw(), b.Beta.Tensor().Raw(), float64(b.Epsilon))
	return tensor.New[float32, B](out, b.backend)
}

func (b *BatchNorm2D[B]) updateRunningStats(mean, variance *tensor.RawTensor, count int) {
	batchMean := tensor.New[float32, B](mean, b.backend)
	batchVar := tensor.New[float32, B](variance, b.backend)
	if count > 1 {
		batchVar = batchVar.MulScalar(float32(count) / float32(count-1))
	}

	keep := 1 - b.Momentum
	b.runningMean = b.runningMean.MulScalar(keep).Add(batchMean.MulScalar(b.Momentum))
	b.runningVar = b.runningVar.MulScalar(keep).Add(batchVar.MulScalar(b.Momentum))
}

// Train switches between training (batch statistics) and evaluation
// (running statistics) mode.
func (b *BatchNorm2D[B]) Train(training bool) {
	b.training = training
}

// Training reports whether the layer is in training mode.
func (b *BatchNorm2D[B]) Training() bool {
	return b.training
}

// RunningMean returns the running mean estimate [C].
func (b *BatchNorm2D[B]) RunningMean() *tensor.Tensor[float32, B] {
	return b.runningMean
}

// RunningVar returns the running variance estimate [C].
func (b *BatchNorm2D[B]) RunningVar() *tensor.Tensor[float32, B] {
	return b.runningVar
}

// Parameters returns the learnable parameters (gamma and beta).
func (b *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{b.Gamma, b.Beta}
}

// String returns a string representation of the layer.
func (b *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2D(num_features=%d, eps=%g, momentum=%g)", b.numFeatures, b.Epsilon, b.Momentum)
}
