package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haodongnj/xtypes"
	"github.com/haodongnj/xtypes/internal/demo"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "print the sample Outer type tree, one line per node",
		RunE: func(cmd *cobra.Command, args []string) error {
			outer, err := demo.BuildOuterType()
			if err != nil {
				return err
			}
			t := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
			fmt.Fprintf(t, "depth\taccess\tname\tkind\n")
			err = xtypes.ForEachType(outer, true, func(n xtypes.TypeNode) error {
				access := "<root>"
				switch n.Edge.Kind {
				case xtypes.EdgeMember:
					access = n.Edge.Name
				case xtypes.EdgeIndex:
					access = fmt.Sprintf("[%d]", n.Edge.Index)
				}
				fmt.Fprintf(t, "%d\t%s%s\t%s\t%s\n", n.Depth, strings.Repeat("  ", n.Depth), access, n.Type.Name(), n.Type.Kind())
				return nil
			})
			if err != nil {
				return err
			}
			return t.Flush()
		},
	}
}
