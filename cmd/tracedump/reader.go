package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// openTraceReader opens a trace-####.trc file, wrapping it with the
// decompressor matching the method used to write it. There is no
// self-describing header for "none", so the caller must know (or pass) the
// same compression method the session was configured with.
func openTraceReader(path, method string) (*bufio.Scanner, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var r io.Reader
	var closer io.Closer = f
	switch method {
	case "", "none":
		r = f
	case "zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		r = zr
		closer = closerFunc(func() error {
			zr.Close()
			return f.Close()
		})
	case "lzma":
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		r = xr
	default:
		f.Close()
		return nil, nil, fmt.Errorf("unknown compression method %q", method)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return scanner, closer, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
