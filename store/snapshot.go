package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/arloliu/vibra/compress"
	"github.com/arloliu/vibra/endian"
	"github.com/arloliu/vibra/errs"
	"github.com/arloliu/vibra/format"
	"github.com/arloliu/vibra/internal/hash"
	"github.com/arloliu/vibra/internal/pool"
	"github.com/arloliu/vibra/telemetry"
)

// Snapshot file layout constants.
const (
	SnapshotMagic      = "VBSN"
	SnapshotVersion    = 1
	SnapshotHeaderSize = 32
)

// Dataset is the content of a snapshot: stored rows exactly as persisted.
type Dataset struct {
	Spectra    []telemetry.SpectrumRow `msgpack:"spectra"`
	Velocities []telemetry.VelocityRow `msgpack:"velocities"`
}

// Len returns the total number of rows.
func (ds Dataset) Len() int {
	return len(ds.Spectra) + len(ds.Velocities)
}

// Load inserts the dataset's rows into the given writers. A nil writer skips
// that kind of row.
func (ds Dataset) Load(ctx context.Context, spectra Writer[telemetry.SpectrumRow], velocities Writer[telemetry.VelocityRow]) error {
	if spectra != nil && len(ds.Spectra) > 0 {
		if err := spectra.Insert(ctx, ds.Spectra...); err != nil {
			return fmt.Errorf("load spectra: %w", err)
		}
	}
	if velocities != nil && len(ds.Velocities) > 0 {
		if err := velocities.Insert(ctx, ds.Velocities...); err != nil {
			return fmt.Errorf("load velocities: %w", err)
		}
	}

	return nil
}

// snapshotHeader is the fixed-size little-endian header preceding the payload.
//
//	offset size field
//	0      4    magic "VBSN"
//	4      2    version
//	6      1    compression type
//	7      1    reserved
//	8      8    uncompressed payload size
//	16     8    stored payload size
//	24     8    xxhash64 of the stored payload
type snapshotHeader struct {
	Version     uint16
	Compression format.CompressionType
	RawSize     uint64
	StoredSize  uint64
	Checksum    uint64
}

func (h snapshotHeader) appendTo(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	dst = append(dst, SnapshotMagic...)
	dst = engine.AppendUint16(dst, h.Version)
	dst = append(dst, byte(h.Compression), 0)
	dst = engine.AppendUint64(dst, h.RawSize)
	dst = engine.AppendUint64(dst, h.StoredSize)

	return engine.AppendUint64(dst, h.Checksum)
}

func parseSnapshotHeader(data []byte) (snapshotHeader, error) {
	if len(data) < SnapshotHeaderSize {
		return snapshotHeader{}, fmt.Errorf("%w: header is %d bytes, need %d", errs.ErrInvalidSnapshot, len(data), SnapshotHeaderSize)
	}
	if string(data[:4]) != SnapshotMagic {
		return snapshotHeader{}, fmt.Errorf("%w: bad magic %q", errs.ErrInvalidSnapshot, data[:4])
	}

	engine := endian.GetLittleEndianEngine()
	h := snapshotHeader{
		Version:     engine.Uint16(data[4:6]),
		Compression: format.CompressionType(data[6]),
		RawSize:     engine.Uint64(data[8:16]),
		StoredSize:  engine.Uint64(data[16:24]),
		Checksum:    engine.Uint64(data[24:32]),
	}
	if h.Version != SnapshotVersion {
		return snapshotHeader{}, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidSnapshot, h.Version)
	}

	return h, nil
}

// WriteSnapshot writes ds to w as a snapshot compressed with compression.
//
// Parameters:
//   - w: Destination
//   - ds: Rows to write
//   - compression: Payload compression
//
// Returns:
//   - int64: Bytes written
//   - error: errs.ErrInvalidCompression, encoding or write errors
func WriteSnapshot(w io.Writer, ds Dataset, compression format.CompressionType) (int64, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return 0, err
	}

	buf := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(buf)

	if err := msgpack.NewEncoder(buf).Encode(&ds); err != nil {
		return 0, fmt.Errorf("encode snapshot payload: %w", err)
	}

	stored, err := codec.Compress(buf.Bytes())
	if err != nil {
		return 0, fmt.Errorf("compress snapshot payload: %w", err)
	}

	header := snapshotHeader{
		Version:     SnapshotVersion,
		Compression: compression,
		RawSize:     uint64(buf.Len()),  //nolint:gosec
		StoredSize:  uint64(len(stored)), //nolint:gosec
		Checksum:    hash.Checksum(stored),
	}

	n, err := w.Write(header.appendTo(make([]byte, 0, SnapshotHeaderSize)))
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("write snapshot header: %w", err)
	}

	n, err = w.Write(stored)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("write snapshot payload: %w", err)
	}

	return total, nil
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
//
// Returns errs.ErrInvalidSnapshot for a malformed header or truncated payload,
// errs.ErrChecksumMismatch when the payload does not match its checksum.
func ReadSnapshot(r io.Reader) (Dataset, error) {
	head := make([]byte, SnapshotHeaderSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return Dataset{}, fmt.Errorf("%w: read header: %w", errs.ErrInvalidSnapshot, err)
	}

	h, err := parseSnapshotHeader(head)
	if err != nil {
		return Dataset{}, err
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}
	if h.StoredSize > compress.MaxPayloadSize || h.RawSize > compress.MaxPayloadSize {
		return Dataset{}, fmt.Errorf("%w: payload of %d bytes exceeds limit", errs.ErrInvalidSnapshot, max(h.StoredSize, h.RawSize))
	}

	stored := make([]byte, h.StoredSize)
	if _, err := io.ReadFull(r, stored); err != nil {
		return Dataset{}, fmt.Errorf("%w: read payload: %w", errs.ErrInvalidSnapshot, err)
	}
	if !hash.Verify(stored, h.Checksum) {
		return Dataset{}, errs.ErrChecksumMismatch
	}

	raw, err := codec.Decompress(stored, int(h.RawSize)) //nolint:gosec
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}

	var ds Dataset
	if err := msgpack.NewDecoder(bytes.NewReader(raw)).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("%w: decode payload: %w", errs.ErrInvalidSnapshot, err)
	}

	return ds, nil
}
