// Package compress provides the payload codecs used by vibra snapshot files.
//
// A snapshot stores its msgpack payload compressed with one of:
//   - None: stored as-is
//   - Zstd: best ratio, the default for archived snapshots
//   - S2: fast with a reasonable ratio
//   - LZ4: fastest decompression
//
// The uncompressed payload size is recorded next to the compressed bytes, so
// every Decompress call receives it and can size its output exactly. A codec
// must reject output whose length differs from the recorded size.
//
// Zstd is implemented with github.com/klauspost/compress/zstd. Building with
// the gozstd tag (and cgo enabled) switches it to the cgo binding
// github.com/valyala/gozstd; both produce standard zstd frames, so snapshots
// written by either build are readable by the other.
package compress
