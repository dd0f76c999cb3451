package trace

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sink is a write-only byte stream a ProcState writes its encoded records
// through. Implementations wrap an underlying file with an optional
// streaming compression codec; Close must flush and release any codec and
// file resources exactly once.
type Sink interface {
	io.Writer
	Flush() error
	Close() error
}

// CompressionConfig selects a Sink implementation and, for codecs that take
// one, a compression level/preset.
type CompressionConfig struct {
	Method string // "none", "zstd", or "lzma"
	Preset int
}

// ParseCompressionDescriptor parses a `<method>[-<preset>]` descriptor
// string, applying the method's default preset when none is given. It
// rejects any method other than none/zstd/lzma.
func ParseCompressionDescriptor(s string) (CompressionConfig, error) {
	method, presetStr, hasPreset := strings.Cut(s, "-")

	var preset int
	var err error
	if hasPreset {
		preset, err = strconv.Atoi(presetStr)
		if err != nil {
			return CompressionConfig{}, fmt.Errorf("trace: invalid compression preset in %q: %w", s, err)
		}
	}

	switch method {
	case "none":
		return CompressionConfig{Method: method, Preset: preset}, nil
	case "lzma":
		if preset == 0 {
			preset = 3
		}
		return CompressionConfig{Method: method, Preset: preset}, nil
	case "zstd":
		if preset == 0 {
			preset = 13
		}
		return CompressionConfig{Method: method, Preset: preset}, nil
	default:
		return CompressionConfig{}, fmt.Errorf("trace: unknown compression method %q", method)
	}
}

// openSink creates the Sink named by cfg, writing to the already-opened
// file f. f's lifetime becomes owned by the returned Sink's Close.
func openSink(f io.WriteCloser, cfg CompressionConfig) (Sink, error) {
	switch cfg.Method {
	case "none":
		return newNoneSink(f), nil
	case "zstd":
		return newZstdSink(f, cfg.Preset)
	case "lzma":
		return newLzmaSink(f, cfg.Preset)
	default:
		return nil, fmt.Errorf("trace: unknown compression method %q", cfg.Method)
	}
}
