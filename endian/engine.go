// Package endian provides byte order engines for binary element decoding.
//
// Each element encoding in the format package fixes a byte order; this package
// maps that order onto a unified EndianEngine so that decoders and encoders can
// read and append fixed-width values without branching on the order themselves.
//
// # Basic Usage
//
//	engine := endian.EngineFor(format.F64BE.IsBigEndian())
//	bits := engine.Uint64(data[0:8])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// EngineFor returns the big-endian engine when bigEndian is true and the
// little-endian engine otherwise.
func EngineFor(bigEndian bool) EndianEngine {
	if bigEndian {
		return GetBigEndianEngine()
	}

	return GetLittleEndianEngine()
}

// IsBigEndian reports whether engine reads the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == GetBigEndianEngine()
}
