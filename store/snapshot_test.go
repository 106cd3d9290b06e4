package store

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vibra/errs"
	"github.com/arloliu/vibra/format"
	"github.com/arloliu/vibra/telemetry"
)

func sampleDataset() Dataset {
	var ds Dataset
	for i := range 20 {
		ds.Spectra = append(ds.Spectra, telemetry.SpectrumRow{
			Channel:   i % 3,
			Ts:        ms(i * 100),
			Freq:      "AAAAAAAAWUAAAAAAAMBiQAAAAAAAAGlAAAAAAABAb0A=",
			Amplitude: fmt.Sprintf("amp-%d", i),
		})
	}
	ds.Velocities = append(ds.Velocities, telemetry.VelocityRow{Channel: 1, Ts: ms(50), Values: "MSwyLDM="})

	return ds
}

func writeSnapshot(t *testing.T, ds Dataset, ct format.CompressionType) []byte {
	t.Helper()

	var buf bytes.Buffer
	n, err := WriteSnapshot(&buf, ds, ct)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	return buf.Bytes()
}

func TestSnapshot_RoundTrip(t *testing.T) {
	ds := sampleDataset()

	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			data := writeSnapshot(t, ds, ct)
			require.Equal(t, SnapshotMagic, string(data[:4]))
			require.Equal(t, byte(ct), data[6])

			got, err := ReadSnapshot(bytes.NewReader(data))
			require.NoError(t, err)
			require.Equal(t, ds.Len(), got.Len())

			for i, want := range ds.Spectra {
				require.Equal(t, want.Channel, got.Spectra[i].Channel)
				require.True(t, want.Ts.Equal(got.Spectra[i].Ts))
				require.Equal(t, want.Freq, got.Spectra[i].Freq)
				require.Equal(t, want.Amplitude, got.Spectra[i].Amplitude)
			}
			require.Equal(t, "MSwyLDM=", got.Velocities[0].Values)
		})
	}
}

func TestSnapshot_Empty(t *testing.T) {
	data := writeSnapshot(t, Dataset{}, format.CompressionZstd)

	got, err := ReadSnapshot(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 0, got.Len())
}

func TestSnapshot_InvalidCompression(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteSnapshot(&buf, sampleDataset(), format.CompressionType(9))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
	require.Zero(t, buf.Len())
}

func TestSnapshot_Corruption(t *testing.T) {
	valid := writeSnapshot(t, sampleDataset(), format.CompressionS2)

	tests := []struct {
		name    string
		mutate  func([]byte) []byte
		wantErr error
	}{
		{"short header", func(b []byte) []byte { return b[:10] }, errs.ErrInvalidSnapshot},
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }, errs.ErrInvalidSnapshot},
		{"bad version", func(b []byte) []byte { b[4] = 9; return b }, errs.ErrInvalidSnapshot},
		{"unknown compression", func(b []byte) []byte { b[6] = 0x7f; return b }, errs.ErrInvalidSnapshot},
		{"truncated payload", func(b []byte) []byte { return b[:len(b)-3] }, errs.ErrInvalidSnapshot},
		{"flipped payload byte", func(b []byte) []byte { b[SnapshotHeaderSize+5] ^= 0xff; return b }, errs.ErrChecksumMismatch},
		{"wrong checksum", func(b []byte) []byte { b[24] ^= 0x01; return b }, errs.ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(bytes.Clone(valid))

			_, err := ReadSnapshot(bytes.NewReader(data))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDataset_Load(t *testing.T) {
	ctx := context.Background()
	ds := sampleDataset()

	spectra := NewMemory[telemetry.SpectrumRow]()
	velocities := NewMemory[telemetry.VelocityRow]()
	require.NoError(t, ds.Load(ctx, spectra, velocities))
	require.Equal(t, len(ds.Spectra), spectra.Len())
	require.Equal(t, len(ds.Velocities), velocities.Len())

	only := NewMemory[telemetry.SpectrumRow]()
	require.NoError(t, ds.Load(ctx, only, nil))
	require.Equal(t, len(ds.Spectra), only.Len())

	require.NoError(t, only.Close())
	require.ErrorIs(t, ds.Load(ctx, only, nil), errs.ErrStoreClosed)
}
