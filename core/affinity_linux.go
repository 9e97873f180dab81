//go:build linux

package core

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the calling OS thread to the given logical core. The
// caller must already hold runtime.LockOSThread — affinity is a
// property of the OS thread, and without the lock the Go scheduler is
// free to move this goroutine to a different, unpinned thread out from
// under it.
func pinToCore(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	return unix.SchedSetaffinity(0, &set)
}

func numLogicalCores() int {
	return runtime.NumCPU()
}
