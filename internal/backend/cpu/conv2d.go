package cpu

import (
	"fmt"

	"github.com/born-ml/vgg/internal/parallel"
	"github.com/born-ml/vgg/internal/tensor"
)

// convGeometry holds the dimensions of one Conv2D call.
type convGeometry struct {
	n, cIn, h, w    int
	cOut, kh, kw    int
	hOut, wOut      int
	stride, padding int
}

// Conv2D performs 2D convolution (cross-correlation) using im2col.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out]
//
//	H_out = (H + 2*padding - K_h) / stride + 1
//	W_out = (W + 2*padding - K_w) / stride + 1
//
// Patches are unrolled into rows of a column buffer so each output element
// is a dot product between one kernel row and one patch row. Output
// channels are computed in parallel.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	if len(kernel.Shape()) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernel.Shape())))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}
	checkSameDType("conv2d", input, kernel)

	n, cIn, h, w := input.Shape().NCHW("conv2d")
	ks := kernel.Shape()
	if ks[1] != cIn {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, ks[1]))
	}

	g := convGeometry{
		n: n, cIn: cIn, h: h, w: w,
		cOut: ks[0], kh: ks[2], kw: ks[3],
		stride: stride, padding: padding,
	}
	g.hOut = (h+2*padding-g.kh)/stride + 1
	g.wOut = (w+2*padding-g.kw)/stride + 1
	if g.hOut <= 0 || g.wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", g.hOut, g.wOut))
	}

	output := cpu.newRaw("conv2d", tensor.Shape{n, g.cOut, g.hOut, g.wOut}, input.DType())

	switch input.DType() {
	case tensor.Float32:
		conv2d(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), g, cpu.parallel)
	case tensor.Float64:
		conv2d(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(), g, cpu.parallel)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

func conv2d[T float](out, in, kernel []T, g convGeometry, cfg parallel.Config) {
	colWidth := g.cIn * g.kh * g.kw
	spatial := g.hOut * g.wOut
	cols := make([]T, g.n*spatial*colWidth)
	im2col(cols, in, g)

	// out[n, co, p] = kernel[co, :] · cols[n*spatial + p, :]
	parallel.For(g.cOut, func(co int) {
		weights := kernel[co*colWidth : (co+1)*colWidth]
		for n := 0; n < g.n; n++ {
			dst := out[(n*g.cOut+co)*spatial : (n*g.cOut+co+1)*spatial]
			for p := range dst {
				row := cols[(n*spatial+p)*colWidth : (n*spatial+p+1)*colWidth]
				var sum T
				for k, wv := range weights {
					sum += wv * row[k]
				}
				dst[p] = sum
			}
		}
	}, cfg)
}

// im2col unrolls input patches into cols, laid out as
// [N * H_out * W_out, C_in * K_h * K_w]. Out-of-bounds taps read as zero.
func im2col[T float](cols, in []T, g convGeometry) {
	idx := 0
	for n := 0; n < g.n; n++ {
		for oh := 0; oh < g.hOut; oh++ {
			for ow := 0; ow < g.wOut; ow++ {
				hStart := oh*g.stride - g.padding
				wStart := ow*g.stride - g.padding

				for c := 0; c < g.cIn; c++ {
					plane := in[(n*g.cIn+c)*g.h*g.w : (n*g.cIn+c+1)*g.h*g.w]
					for kh := 0; kh < g.kh; kh++ {
						y := hStart + kh
						for kw := 0; kw < g.kw; kw++ {
							x := wStart + kw
							if y >= 0 && y < g.h && x >= 0 && x < g.w {
								cols[idx] = plane[y*g.w+x]
							} else {
								cols[idx] = 0
							}
							idx++
						}
					}
				}
			}
		}
	}
}
