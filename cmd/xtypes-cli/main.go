// The xtypes-cli tool exercises the dynamic type engine from the command
// line: "describe" prints a sample type tree, "demo" runs the engine's
// canonical Outer/Inner scenario end to end.
// Run "xtypes-cli help" for a list of commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "xtypes-cli",
		Short: "inspect and exercise the xtypes dynamic type engine",
	}
	root.AddCommand(newDescribeCmd())
	root.AddCommand(newDemoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
