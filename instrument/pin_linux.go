//go:build linux && !headless

package instrument

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// bindCurrentThreadToProcessor locks the calling goroutine to its current
// OS thread and sets that thread's CPU affinity mask to the single given
// processor, mirroring bind_thread_to_processor's pthread_setaffinity_np
// call.
func bindCurrentThreadToProcessor(proc int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(proc)
	return unix.SchedSetaffinity(0, &set)
}
