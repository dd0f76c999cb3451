package trace

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// nopWriteCloser adapts a bytes.Buffer to io.WriteCloser for sink tests that
// never touch a real file.
type nopWriteCloser struct {
	*bytes.Buffer
	closed bool
}

func (w *nopWriteCloser) Close() error {
	w.closed = true
	return nil
}

func TestParseCompressionDescriptor(t *testing.T) {
	cases := []struct {
		in         string
		wantMethod string
		wantPreset int
	}{
		{"none", "none", 0},
		{"zstd", "zstd", 13},
		{"zstd-5", "zstd", 5},
		{"lzma", "lzma", 3},
		{"lzma-9", "lzma", 9},
	}
	for _, c := range cases {
		cfg, err := ParseCompressionDescriptor(c.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", c.in, err)
		}
		if cfg.Method != c.wantMethod || cfg.Preset != c.wantPreset {
			t.Fatalf("%q: got {%s %d}, expected {%s %d}", c.in, cfg.Method, cfg.Preset, c.wantMethod, c.wantPreset)
		}
	}
}

func TestParseCompressionDescriptorRejectsUnknownMethod(t *testing.T) {
	if _, err := ParseCompressionDescriptor("gzip"); err == nil {
		t.Fatalf("expected an error for an unsupported compression method")
	}
}

func TestParseCompressionDescriptorRejectsMalformedPreset(t *testing.T) {
	if _, err := ParseCompressionDescriptor("zstd-not-a-number"); err == nil {
		t.Fatalf("expected an error for a malformed preset")
	}
}

func TestNoneSinkRoundTrip(t *testing.T) {
	buf := &nopWriteCloser{Buffer: &bytes.Buffer{}}
	sink := newNoneSink(buf)
	if _, err := sink.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !buf.closed {
		t.Fatalf("expected the underlying writer to be closed")
	}
	if buf.String() != "hello" {
		t.Fatalf("got %q, expected %q", buf.String(), "hello")
	}
}

func TestZstdSinkRoundTrip(t *testing.T) {
	buf := &nopWriteCloser{Buffer: &bytes.Buffer{}}
	sink, err := newZstdSink(buf, 3)
	if err != nil {
		t.Fatalf("newZstdSink failed: %v", err)
	}
	const payload = "0123456789deadbeef"
	if _, err := sink.Write([]byte(payload)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	dec, err := zstd.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("zstd.NewReader failed: %v", err)
	}
	defer dec.Close()
	got, err := dec.DecodeAll(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(got) != payload {
		t.Fatalf("got %q, expected %q", got, payload)
	}
}

func TestLzmaSinkRoundTrip(t *testing.T) {
	buf := &nopWriteCloser{Buffer: &bytes.Buffer{}}
	sink, err := newLzmaSink(buf, 1)
	if err != nil {
		t.Fatalf("newLzmaSink failed: %v", err)
	}
	const payload = "0123456789deadbeef"
	if _, err := sink.Write([]byte(payload)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	r, err := xz.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("xz.NewReader failed: %v", err)
	}
	got := make([]byte, len(payload))
	if _, err := r.Read(got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != payload {
		t.Fatalf("got %q, expected %q", got, payload)
	}
}

func TestPresetToDictCapMonotonic(t *testing.T) {
	prev := 0
	for p := 0; p <= 9; p++ {
		cap := presetToDictCap(p)
		if cap < prev {
			t.Fatalf("preset %d: dict cap %d is smaller than preset %d's %d", p, cap, p-1, prev)
		}
		prev = cap
	}
}

func TestOpenSinkUnknownMethod(t *testing.T) {
	buf := &nopWriteCloser{Buffer: &bytes.Buffer{}}
	if _, err := openSink(buf, CompressionConfig{Method: "gzip"}); err == nil {
		t.Fatalf("expected an error for an unknown sink method")
	}
}
