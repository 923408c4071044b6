package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/vgg/internal/parallel"
	"github.com/born-ml/vgg/internal/tensor"
)

// ChannelMoments computes the per-channel mean and biased variance of an
// [N, C, H, W] tensor over the N, H and W axes. Both results have shape [C].
func (cpu *CPUBackend) ChannelMoments(x *tensor.RawTensor) (mean, variance *tensor.RawTensor) {
	n, c, h, w := x.Shape().NCHW("channel_moments")
	mean = cpu.newRaw("channel_moments", tensor.Shape{c}, x.DType())
	variance = cpu.newRaw("channel_moments", tensor.Shape{c}, x.DType())

	switch x.DType() {
	case tensor.Float32:
		channelMoments(mean.AsFloat32(), variance.AsFloat32(), x.AsFloat32(), n, c, h*w, cpu.parallel)
	case tensor.Float64:
		channelMoments(mean.AsFloat64(), variance.AsFloat64(), x.AsFloat64(), n, c, h*w, cpu.parallel)
	default:
		panic(fmt.Sprintf("channel_moments: unsupported dtype %s", x.DType()))
	}
	return mean, variance
}

// BatchNorm2D normalizes an [N, C, H, W] tensor per channel:
//
//	y = (x - mean[c]) / sqrt(variance[c] + eps) * gamma[c] + beta[c]
//
// mean, variance, gamma and beta must all have shape [C].
func (cpu *CPUBackend) BatchNorm2D(x, mean, variance, gamma, beta *tensor.RawTensor, eps float64) *tensor.RawTensor {
	n, c, h, w := x.Shape().NCHW("batchnorm2d")
	checkSameDType("batchnorm2d", x, mean, variance, gamma, beta)
	for name, p := range map[string]*tensor.RawTensor{"mean": mean, "variance": variance, "gamma": gamma, "beta": beta} {
		if !p.Shape().Equal(tensor.Shape{c}) {
			panic(fmt.Sprintf("batchnorm2d: %s shape %v != [%d]", name, p.Shape(), c))
		}
	}

	result := cpu.newRaw("batchnorm2d", x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		batchNorm(result.AsFloat32(), x.AsFloat32(), mean.AsFloat32(), variance.AsFloat32(),
			gamma.AsFloat32(), beta.AsFloat32(), eps, n, c, h*w, cpu.parallel)
	case tensor.Float64:
		batchNorm(result.AsFloat64(), x.AsFloat64(), mean.AsFloat64(), variance.AsFloat64(),
			gamma.AsFloat64(), beta.AsFloat64(), eps, n, c, h*w, cpu.parallel)
	default:
		panic(fmt.Sprintf("batchnorm2d: unsupported dtype %s", x.DType()))
	}
	return result
}

// channelMoments accumulates in float64 to keep float32 variance stable.
func channelMoments[T float](mean, variance, x []T, n, c, plane int, cfg parallel.Config) {
	count := float64(n * plane)
	parallel.For(c, func(ch int) {
		var sum float64
		for b := 0; b < n; b++ {
			for _, v := range x[(b*c+ch)*plane : (b*c+ch+1)*plane] {
				sum += float64(v)
			}
		}
		mu := sum / count

		var sq float64
		for b := 0; b < n; b++ {
			for _, v := range x[(b*c+ch)*plane : (b*c+ch+1)*plane] {
				d := float64(v) - mu
				sq += d * d
			}
		}
		mean[ch] = T(mu)
		variance[ch] = T(sq / count)
	}, cfg)
}

func batchNorm[T float](dst, x, mean, variance, gamma, beta []T, eps float64, n, c, plane int, cfg parallel.Config) {
	parallel.ForBatch(n, c, func(b, ch int) {
		scale := T(1/math.Sqrt(float64(variance[ch])+eps)) * gamma[ch]
		shift := beta[ch] - mean[ch]*scale
		off := (b*c + ch) * plane
		for i, v := range x[off : off+plane] {
			dst[off+i] = v*scale + shift
		}
	}, cfg)
}
