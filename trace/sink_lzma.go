package trace

import (
	"io"

	"github.com/ulikunitz/xz"
)

// lzmaSink streams records through an xz/LZMA2 encoder with a CRC64
// integrity check, mirroring the original C++ sink's
// lzma_easy_encoder(..., LZMA_CHECK_CRC64) configuration.
type lzmaSink struct {
	f   io.WriteCloser
	enc *xz.Writer
}

// presetToDictCap maps a liblzma-style easy-encoder preset (0-9, optionally
// with an "extreme" bit which this port does not distinguish) onto an
// xz/LZMA2 dictionary capacity, following the same rough doubling schedule
// xz itself uses for its -0 through -9 presets.
func presetToDictCap(preset int) int {
	const oneMiB = 1 << 20
	switch {
	case preset <= 0:
		return 256 * 1024
	case preset == 1:
		return oneMiB
	case preset == 2:
		return 2 * oneMiB
	case preset == 3:
		return 4 * oneMiB
	case preset == 4:
		return 4 * oneMiB
	case preset == 5:
		return 8 * oneMiB
	case preset == 6:
		return 8 * oneMiB
	case preset == 7:
		return 16 * oneMiB
	case preset == 8:
		return 32 * oneMiB
	default:
		return 64 * oneMiB
	}
}

func newLzmaSink(f io.WriteCloser, preset int) (Sink, error) {
	cfg := xz.WriterConfig{
		DictCap:  presetToDictCap(preset),
		CheckSum: xz.CRC64,
	}
	enc, err := cfg.NewWriter(f)
	if err != nil {
		return nil, err
	}
	return &lzmaSink{f: f, enc: enc}, nil
}

func (s *lzmaSink) Write(p []byte) (int, error) { return s.enc.Write(p) }

// Flush is a no-op: the xz package only supports flushing by closing the
// stream (LZMA_FINISH in the original is likewise only issued at close),
// so a mid-stream Flush call cannot force a sync point without ending the
// stream.
func (s *lzmaSink) Flush() error { return nil }

// Close issues the final LZMA2 block and xz footer (the encoder itself
// loops until its internal buffers are drained) and then releases the file.
func (s *lzmaSink) Close() error {
	if err := s.enc.Close(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}
