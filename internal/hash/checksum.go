// Package hash provides the checksum used to validate snapshot payloads.
package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the xxHash64 of data.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Verify reports whether data hashes to want.
func Verify(data []byte, want uint64) bool {
	return xxhash.Sum64(data) == want
}
