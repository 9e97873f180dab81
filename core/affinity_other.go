//go:build !linux

package core

import "runtime"

// pinToCore is a no-op on platforms without a portable affinity syscall
// in golang.org/x/sys/unix. Worker threads still run in parallel; they
// simply aren't pinned to a specific core.
func pinToCore(core int) error {
	return nil
}

func numLogicalCores() int {
	return runtime.NumCPU()
}
