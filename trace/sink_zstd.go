package trace

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdSink streams records through a zstd encoder with checksums enabled,
// mirroring the original C++ sink's ZSTD_c_checksumFlag=1 setting so a
// corrupted trace file is detectable by any zstd-aware reader.
type zstdSink struct {
	f   io.WriteCloser
	enc *zstd.Encoder
}

func newZstdSink(f io.WriteCloser, preset int) (Sink, error) {
	enc, err := zstd.NewWriter(f,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(preset)),
		zstd.WithChecksum(true),
	)
	if err != nil {
		return nil, err
	}
	return &zstdSink{f: f, enc: enc}, nil
}

func (s *zstdSink) Write(p []byte) (int, error) { return s.enc.Write(p) }

func (s *zstdSink) Flush() error { return s.enc.Flush() }

// Close emits the end-of-stream frame (via the encoder's own Close) and
// then releases the underlying file; zstd.Encoder.Close loops internally
// until all buffered input is drained into output frames.
func (s *zstdSink) Close() error {
	if err := s.enc.Close(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}
