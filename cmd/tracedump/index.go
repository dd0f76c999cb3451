package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <trace-directory>",
		Short: "Print the parsed contents of a trace directory's sidecar index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filepath.Join(args[0], "trace.index"))
			if err != nil {
				return err
			}
			defer f.Close()

			scanner := bufio.NewScanner(f)
			lines := make([]string, 0, 3)
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			if len(lines) != 3 {
				return fmt.Errorf("trace.index has %d line(s), expected 3", len(lines))
			}
			count, err := strconv.Atoi(lines[0])
			if err != nil {
				return fmt.Errorf("malformed trace count %q: %w", lines[0], err)
			}
			fmt.Printf("traces opened: %d\n%s\n%s\n", count, lines[1], lines[2])
			return nil
		},
	}
	return cmd
}
