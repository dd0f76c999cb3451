package trace

import "io"

// noneSink delegates directly to the underlying file; the "none"
// compression method in a descriptor string.
type noneSink struct {
	f io.WriteCloser
}

func newNoneSink(f io.WriteCloser) *noneSink { return &noneSink{f: f} }

func (s *noneSink) Write(p []byte) (int, error) { return s.f.Write(p) }

func (s *noneSink) Flush() error {
	if fl, ok := s.f.(interface{ Sync() error }); ok {
		return fl.Sync()
	}
	return nil
}

func (s *noneSink) Close() error { return s.f.Close() }
