package instrument

import "sync/atomic"

// ThreadPinner assigns newly created threads to simulated processors in
// reverse order: the first caller gets processor 0, every later caller the
// next lower processor starting from the highest one.
// The zero value is not usable; construct with NewThreadPinner.
type ThreadPinner struct {
	numProcs int64
	nextID   atomic.Int64
}

// NewThreadPinner returns a ThreadPinner that distributes threads across
// numProcs simulated processors.
func NewThreadPinner(numProcs int) *ThreadPinner {
	return &ThreadPinner{numProcs: int64(numProcs)}
}

// processorFor implements the pinning formula: thread id i (0-based, in
// call order) is bound to processor ((n - i) % n + n) % n, i.e. id 0 binds
// to processor 0 and ids 1, 2, ... bind to n-1, n-2, ... downwards.
func (p *ThreadPinner) processorFor(id int64) int {
	n := p.numProcs
	return int(((n-id)%n + n) % n)
}

// PinCurrentThread atomically claims the next thread id and pins the
// calling goroutine's underlying OS thread to the processor it maps to. The
// goroutine must not have called runtime.UnlockOSThread beforehand; callers
// typically invoke this as the first statement of a freshly spawned
// goroutine intended to represent one traced worker thread.
func (p *ThreadPinner) PinCurrentThread() (processor int, err error) {
	id := p.nextID.Add(1) - 1
	proc := p.processorFor(id)
	return proc, bindCurrentThreadToProcessor(proc)
}
