package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
)

// recordPattern matches the start of one trace body line: an optional
// verbose disassembly annotation, an optional tag and a signed decimal PC
// delta. The operand tail (register/memory/target operands) that follows
// is not checked.
var recordPattern = regexp.MustCompile(`^(\{ .{32} \} )?(L|LR|S|SA|SC|RMW|A|M|D|Q|B|C|c|J|j|r|UNKNOWN)?-?\d+`)

var headerPattern = regexp.MustCompile(`^[0-9a-f]+$`)
var trailerPattern = regexp.MustCompile(`^END [0-9a-f]+$`)

func newValidateCmd() *cobra.Command {
	var compression string
	cmd := &cobra.Command{
		Use:   "validate <trace-file>",
		Short: "Check a trace file's grammar against the documented format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, closer, err := openTraceReader(args[0], compression)
			if err != nil {
				return err
			}
			defer closer.Close()

			lineNo := 0
			sawHeader := false
			problems := 0
			for scanner.Scan() {
				line := scanner.Text()
				lineNo++
				switch {
				case lineNo == 1:
					if !headerPattern.MatchString(line) {
						fmt.Printf("line %d: malformed header %q\n", lineNo, line)
						problems++
					}
					sawHeader = true
				case line == "CLEAR":
					// always well-formed
				case trailerPattern.MatchString(line):
					// well-formed trailer; more body lines may follow
				case recordPattern.MatchString(line):
					// well-formed body record
				default:
					fmt.Printf("line %d: does not match the trace grammar: %q\n", lineNo, line)
					problems++
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			if !sawHeader {
				fmt.Println("file is empty: no header line")
				problems++
			}
			if problems > 0 {
				return fmt.Errorf("%d grammar violation(s) found", problems)
			}
			fmt.Printf("%s: %d line(s), no grammar violations found\n", args[0], lineNo)
			return nil
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "none", "compression method the trace file was written with (none, zstd, lzma)")
	return cmd
}
