// Command goconpty is a small interactive driver used to exercise the
// conpty library end to end. It is a development/demo harness, grounded
// on the teacher's cmd/wintmux but rebuilt on github.com/spf13/cobra the
// way _examples/dcosson-h2/internal/cmd structures its subcommands; it
// is not part of the library's public API surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goconpty",
		Short: "Drive a Windows pseudo-console session from the command line",
	}
	cmd.AddCommand(newRunCmd())
	return cmd
}
