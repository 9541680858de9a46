//go:build unix

package osmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Map returns size bytes of private, anonymous, zero-filled memory obtained
// directly from the kernel. The mapping lives until the process exits.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("osmem: invalid mapping size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("osmem: mmap %d bytes: %w", size, err)
	}
	return data, nil
}
