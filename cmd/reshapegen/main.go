// Command reshapegen prints the GPU programs that reshape a texture-stored
// tensor, and runs them against a reference backend.
//
// Usage:
//
//	reshapegen glsl --in 2,3 --out 3,2 --packed
//	reshapegen wgsl --in 4,4 --out 2,8
//	reshapegen run --in 2,3 --out 3,2 --packed --backend cpu
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reshapegen",
		Short:         "Generate reshape programs for texture-stored tensors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newGLSLCmd(),
		newWGSLCmd(),
		newRunCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "reshapegen %s\n", version)
			},
		},
	)
	return root
}
