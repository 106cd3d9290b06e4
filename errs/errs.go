// Package errs defines the sentinel errors returned across vibra packages.
//
// Callers match them with errors.Is; producers wrap them with additional
// context using fmt.Errorf("%w: ...").
package errs

import "errors"

var (
	// ErrInvalidTimestamp is returned when a timestamp argument cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrInvalidZone is returned when the storage timezone name is unknown.
	ErrInvalidZone = errors.New("invalid storage zone")
	// ErrInvalidEncoding is returned for an unknown element encoding name.
	ErrInvalidEncoding = errors.New("invalid element encoding")
	// ErrInvalidCompression is returned for an unknown compression type.
	ErrInvalidCompression = errors.New("invalid compression type")
	// ErrInvalidSnapshot is returned when a snapshot header or payload is malformed.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrChecksumMismatch is returned when a snapshot payload fails checksum validation.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrStoreClosed is returned by store operations after Close.
	ErrStoreClosed = errors.New("store closed")
)
