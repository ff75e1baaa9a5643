package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/born-ml/texreshape/backend/cpu"
	"github.com/born-ml/texreshape/reshape"
)

// backends maps --backend values to constructors. Platform files may add
// entries from init.
var backends = map[string]func() (reshape.Backend, func(), error){
	"cpu": func() (reshape.Backend, func(), error) {
		return cpu.New(), func() {}, nil
	},
}

func newRunCmd() *cobra.Command {
	var (
		flags   shapeFlags
		backend string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reshape 0..n-1 on a backend and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := flags.plan()
			if err != nil {
				return err
			}
			open, ok := backends[backend]
			if !ok {
				return fmt.Errorf("unknown backend %q (available: %s)", backend, strings.Join(backendNames(), ", "))
			}
			b, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			values := lo.Times(plan.InputShape.NumElements(), func(i int) float32 { return float32(i) })
			var in *reshape.Texture
			if plan.Packing == reshape.Packed {
				in, err = reshape.Pack(plan.InputShape, values)
			} else {
				in, err = reshape.UnpackedTexture(plan.InputShape, values)
			}
			if err != nil {
				return err
			}

			out, err := b.Reshape(plan, in)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), b.Name(), plan, out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&backend, "backend", "cpu", "backend to run on ("+strings.Join(backendNames(), ", ")+")")
	return cmd
}

func backendNames() []string {
	names := lo.Keys(backends)
	sort.Strings(names)
	return names
}

func printResult(w io.Writer, name string, plan *reshape.Plan, out *reshape.Texture) {
	fmt.Fprintf(w, "backend: %s\n", name)
	fmt.Fprintf(w, "reshape: %v -> %v (%s)\n", plan.InputShape, plan.OutputShape, plan.Packing)
	fmt.Fprintf(w, "values:  %v\n", out.Values())
	for i := 0; i < len(out.Data)/4; i++ {
		fmt.Fprintf(w, "texel %d: %v\n", i, out.Texel(i))
	}
}
