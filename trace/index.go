package trace

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeIndexFile writes the trace.index sidecar (§4.6, §6): the decimal
// trace count followed by two fixed capability lines that currently always
// report "not present" for this implementation.
func writeIndexFile(destination string, count int64) error {
	path := filepath.Join(destination, "trace.index")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%d\nTRACE_HAS_SEQUENCE_NUMBERS: 0\nTRACE_HAS_SC_vs_RELAXED_LOCK_TYPE: 0\n", count)
	return err
}
