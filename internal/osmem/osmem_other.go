//go:build !unix

package osmem

import "fmt"

// Map returns size bytes of zero-filled memory. Without anonymous mappings
// the extent is carved from the Go heap and pinned by the caller's reference.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("osmem: invalid mapping size %d", size)
	}
	return make([]byte, size), nil
}
