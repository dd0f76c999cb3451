// Command tracedump inspects gems4proc-compatible trace directories: it
// checks each line of a trace file against the record grammar, prints
// records and decodes the sidecar index, standing in for the downstream
// consumer this repository does not otherwise ship. It does not check the
// per-record invariants that the emitter asserts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tracedump:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tracedump",
		Short: "Inspect gems4proc-compatible instruction trace directories",
	}
	root.AddCommand(newDumpCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newIndexCmd())
	return root
}
