package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/texreshape/reshape"
)

func newGLSLCmd() *cobra.Command {
	var flags shapeFlags
	cmd := &cobra.Command{
		Use:   "glsl",
		Short: "Print the GLSL reshape program",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := flags.plan()
			if err != nil {
				return err
			}
			prog, err := reshape.NewProgram(plan.InputShape, plan.OutputShape, plan.Packing)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), prog.UserCode)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newWGSLCmd() *cobra.Command {
	var flags shapeFlags
	cmd := &cobra.Command{
		Use:   "wgsl",
		Short: "Print the WGSL reshape compute shader",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := flags.plan()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), reshape.WGSL(plan))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
