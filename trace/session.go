package trace

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// SessionConfig carries the options that flow in from the hosting
// simulator's own command line. It is built once per run and wrapped in a
// Coordinator; unlike the original source's process-wide singleton, it is
// threaded explicitly through every ProcState constructor.
type SessionConfig struct {
	// Enable turns tracing on globally; when false, Emit is a no-op on
	// every hart.
	Enable bool
	// Verbose prepends a disassembly annotation to every record and
	// allows UNKNOWN records to be emitted instead of panicking.
	Verbose bool
	// FilterPrivileged, when set, drops any instruction whose preceding
	// instruction executed at a privileged level.
	FilterPrivileged bool
	// Destination is the directory trace files and the sidecar index are
	// written into. Created idempotently on first use.
	Destination string
	// MaxTraceInstructions caps the number of records written per hart.
	// NewCoordinator replaces zero with DefaultMaxTraceInstructions, so
	// zero means no cap.
	MaxTraceInstructions uint64
	// Compression selects the codec and its preset, as a descriptor
	// string (see ParseCompressionDescriptor).
	Compression string
}

// DefaultMaxTraceInstructions disables the instruction cap.
const DefaultMaxTraceInstructions = uint64(math.MaxUint64)

// Coordinator is the trace session coordinator (§4.6): the process-wide
// (but, here, explicit and constructible) owner of the destination
// directory, the compression configuration, and the atomic count of traces
// opened so far. Every ProcState for a run shares one Coordinator.
type Coordinator struct {
	SessionConfig

	compression CompressionConfig

	tracesOpened atomic.Int64

	mu    sync.Mutex
	procs []*ProcState

	dirOnce sync.Once
	dirErr  error
}

// NewCoordinator validates cfg's compression descriptor and returns a ready
// Coordinator. An empty Destination is only valid when Enable is false.
func NewCoordinator(cfg SessionConfig) (*Coordinator, error) {
	if cfg.Enable && cfg.Destination == "" {
		return nil, fmt.Errorf("trace: enabled session requires a destination directory")
	}
	comp, err := ParseCompressionDescriptor(cfg.Compression)
	if err != nil {
		return nil, err
	}
	if cfg.MaxTraceInstructions == 0 {
		cfg.MaxTraceInstructions = DefaultMaxTraceInstructions
	}
	return &Coordinator{SessionConfig: cfg, compression: comp}, nil
}

// NewProcessorState returns a fresh per-hart trace-state controller bound
// to this coordinator and registers it so Shutdown can find it later. id is
// an opaque label (e.g. hart index) used only for diagnostics.
func (c *Coordinator) NewProcessorState(id int) *ProcState {
	ps := &ProcState{coord: c, id: id}
	c.mu.Lock()
	c.procs = append(c.procs, ps)
	c.mu.Unlock()
	return ps
}

// TracesOpened returns the number of per-hart trace files opened so far.
func (c *Coordinator) TracesOpened() int64 { return c.tracesOpened.Load() }

func (c *Coordinator) ensureDestination() error {
	c.dirOnce.Do(func() {
		c.dirErr = os.MkdirAll(c.Destination, 0o755)
	})
	return c.dirErr
}

// openTraceFile implements the filename/open/counter-increment sequence of
// §4.5: ensure the destination exists, compute the next zero-padded
// trace-#### name under the coordinator's counter, and open the
// configured compressing sink over it.
func (c *Coordinator) openTraceFile() (Sink, error) {
	if err := c.ensureDestination(); err != nil {
		return nil, err
	}
	idx := c.tracesOpened.Add(1) - 1
	name := fmt.Sprintf("trace-%04d.trc", idx)
	f, err := os.Create(filepath.Join(c.Destination, name))
	if err != nil {
		return nil, err
	}
	sink, err := openSink(f, c.compression)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return sink, nil
}

// Shutdown closes every registered hart's sink concurrently (sinks are
// never shared, so there is nothing to serialize) and then writes the
// sidecar index. It returns the first error encountered, but still
// attempts to close every sink.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	procs := append([]*ProcState(nil), c.procs...)
	c.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for _, ps := range procs {
		ps := ps
		g.Go(func() error { return ps.Close() })
	}
	closeErr := g.Wait()

	if err := c.writeIndex(); err != nil {
		if closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}

// writeIndex implements §4.6: write the three-line trace.index if any
// traces were opened, otherwise warn to stderr and write nothing.
func (c *Coordinator) writeIndex() error {
	if !c.Enable {
		return nil
	}
	n := c.tracesOpened.Load()
	if n <= 0 {
		fmt.Fprintln(os.Stderr, "No gems4proc trace created. It seems no processor used the START_TRACING hint.")
		return nil
	}
	return writeIndexFile(c.Destination, n)
}
