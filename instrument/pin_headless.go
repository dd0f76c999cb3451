//go:build !linux || headless

package instrument

import "runtime"

// bindCurrentThreadToProcessor locks the calling goroutine to its OS thread
// but cannot set CPU affinity on this platform; thread-to-processor binding
// is a Linux-only capability of the original interface.
func bindCurrentThreadToProcessor(proc int) error {
	runtime.LockOSThread()
	return nil
}
