package instrument

// GoWithPinning starts fn in a new goroutine that first pins its OS thread
// via pinner, then optionally emits the start-tracing and/or start-ROI
// markers, then runs fn. It is the goroutine-based analogue of
// pthread_create_like: the new "thread" is fully set up for tracing before
// any of the caller's code executes in it.
func GoWithPinning(pinner *ThreadPinner, startTracing, startROI bool, fn func()) {
	go func() {
		if _, err := pinner.PinCurrentThread(); err != nil {
			// Binding failure is not fatal to the traced workload;
			// the thread simply runs unpinned.
			_ = err
		}
		if startTracing {
			EmitStartTracing()
		}
		if startROI {
			EmitClear()
		}
		fn()
	}()
}
