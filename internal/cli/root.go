package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd assembles the vgg command tree.
func NewRootCmd(version string) *cobra.Command {
	var jsonOutput bool

	root := &cobra.Command{
		Use:           "vgg",
		Short:         "VGG-style convolutional feature stack",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	outputFn := func(cmd *cobra.Command) *Output { return NewOutput(cmd.OutOrStdout(), jsonOutput) }

	root.AddCommand(
		NewRunCmd(outputFn),
		NewDescribeCmd(outputFn),
		newVersionCmd(version),
	)
	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vgg %s\n", version)
		},
	}
}
