package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/vgg/internal/parallel"
	"github.com/born-ml/vgg/internal/tensor"
)

// MaxPool2D performs 2D max pooling with a square window.
//
// Input shape:  [N, C, H, W]
// Output shape: [N, C, H_out, W_out]
//
//	H_out = (H - kernelSize) / stride + 1
//	W_out = (W - kernelSize) / stride + 1
//
// Example (2x2 pool, stride=2):
//
//	Input: [[1,2,3,4],    Output: [[6,8],
//	        [5,6,7,8],             [14,16]]
//	        [9,10,11,12],
//	        [13,14,15,16]]
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	n, c, h, w := input.Shape().NCHW("maxpool2d")

	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	if kernelSize > h || kernelSize > w {
		panic(fmt.Sprintf("maxpool2d: kernel size %d too large for input %dx%d", kernelSize, h, w))
	}

	hOut := (h-kernelSize)/stride + 1
	wOut := (w-kernelSize)/stride + 1
	output := cpu.newRaw("maxpool2d", tensor.Shape{n, c, hOut, wOut}, input.DType())

	p := pool2d{h: h, w: w, hOut: hOut, wOut: wOut, kernel: kernelSize, stride: stride}
	switch input.DType() {
	case tensor.Float32:
		maxpool2d(output.AsFloat32(), input.AsFloat32(), n, c, p, cpu.parallel)
	case tensor.Float64:
		maxpool2d(output.AsFloat64(), input.AsFloat64(), n, c, p, cpu.parallel)
	default:
		panic(fmt.Sprintf("maxpool2d: unsupported dtype %v", input.DType()))
	}

	return output
}

type pool2d struct {
	h, w, hOut, wOut int
	kernel, stride   int
}

func maxpool2d[T float](out, in []T, n, c int, p pool2d, cfg parallel.Config) {
	parallel.ForBatch(n, c, func(b, ch int) {
		plane := in[(b*c+ch)*p.h*p.w : (b*c+ch+1)*p.h*p.w]
		dst := out[(b*c+ch)*p.hOut*p.wOut : (b*c+ch+1)*p.hOut*p.wOut]

		for oh := 0; oh < p.hOut; oh++ {
			hStart := oh * p.stride
			for ow := 0; ow < p.wOut; ow++ {
				wStart := ow * p.stride

				maxVal := T(math.Inf(-1))
				for kh := 0; kh < p.kernel; kh++ {
					row := plane[(hStart+kh)*p.w : (hStart+kh+1)*p.w]
					for _, v := range row[wStart : wStart+p.kernel] {
						if v > maxVal {
							maxVal = v
						}
					}
				}
				dst[oh*p.wOut+ow] = maxVal
			}
		}
	}, cfg)
}
