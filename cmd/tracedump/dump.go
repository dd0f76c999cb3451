package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newDumpCmd() *cobra.Command {
	var compression string
	cmd := &cobra.Command{
		Use:   "dump <trace-file>",
		Short: "Pretty-print the records in a single trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, closer, err := openTraceReader(args[0], compression)
			if err != nil {
				return err
			}
			defer closer.Close()

			highlight := term.IsTerminal(int(os.Stdout.Fd()))
			lineNo := 0
			for scanner.Scan() {
				line := scanner.Text()
				lineNo++
				if highlight && lineNo == 1 {
					fmt.Printf("\x1b[1mheader\x1b[0m %s\n", line)
					continue
				}
				fmt.Println(line)
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "none", "compression method the trace file was written with (none, zstd, lzma)")
	return cmd
}
