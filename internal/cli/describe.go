package cli

import (
	"fmt"

	"github.com/born-ml/vgg/internal/backend/cpu"
	"github.com/born-ml/vgg/internal/nn"
	"github.com/born-ml/vgg/internal/telemetry"
	"github.com/spf13/cobra"
)

// Description is the JSON form of describe.
type Description struct {
	Depth        int      `json:"depth"`
	Widths       []int    `json:"widths"`
	InputShape   []int    `json:"input_shape"`
	OutputShape  []int    `json:"output_shape"`
	Parameters   int      `json:"parameters"`
	Architecture string   `json:"architecture"`
	Warnings     []string `json:"warnings,omitempty"`
}

// NewDescribeCmd creates the describe command.
func NewDescribeCmd(outputFn func(cmd *cobra.Command) *Output) *cobra.Command {
	var flags stackFlags

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the stack architecture and parameter count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.vggConfig(cmd)
			if err != nil {
				return err
			}
			shape, err := parseShape(flags.input)
			if err != nil {
				return err
			}
			outShape, err := cfg.OutputShape(shape)
			if err != nil {
				return err
			}

			stack, err := nn.NewVGG(cfg, cpu.New(), nn.WithLogger(telemetry.FromContext(cmd.Context())))
			if err != nil {
				return err
			}

			d := Description{
				Depth:        stack.Depth(),
				Widths:       cfg.Widths,
				InputShape:   shape,
				OutputShape:  outShape,
				Parameters:   nn.CountParameters(stack.Parameters()),
				Architecture: stack.String(),
				Warnings:     stack.Warnings(),
			}

			out := outputFn(cmd)
			out.Text("%s", d.Architecture)
			return out.Print(
				[]string{"DEPTH", "INPUT", "OUTPUT", "PARAMETERS"},
				[][]string{{
					fmt.Sprint(d.Depth),
					fmt.Sprint(d.InputShape),
					fmt.Sprint(d.OutputShape),
					fmt.Sprint(d.Parameters),
				}},
				d,
			)
		},
	}

	addStackFlags(cmd, &flags)
	return cmd
}
