package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/arloliu/vibra/format"
	"github.com/arloliu/vibra/store"
	"github.com/arloliu/vibra/telemetry"
	"github.com/arloliu/vibra/timeline"
)

const maxLineSize = 64 << 20

type importSummary struct {
	Spectra    int    `json:"spectra"`
	Velocities int    `json:"velocities"`
	Snapshot   string `json:"snapshot,omitempty"`
	Bytes      int64  `json:"bytes,omitempty"`
}

func newImportCmd(a *app) *cobra.Command {
	var in, snapshot, compression string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load JSON-lines rows into a snapshot file or the configured store",
		Long: "Each input line is an object with channelId, ts and either freq/amplitude\n" +
			"(a spectrum row) or values (a velocity row). An optional kind field\n" +
			"(\"spectrum\" or \"velocity\") overrides the detection. Zone-less ts values are\n" +
			"read in the configured zone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, closeIn, err := openInput(in)
			if err != nil {
				return err
			}
			defer closeIn()

			ds, err := readRows(r, a.clock)
			if err != nil {
				return err
			}

			summary := importSummary{Spectra: len(ds.Spectra), Velocities: len(ds.Velocities)}
			if snapshot != "" {
				ct, err := format.ParseCompressionType(compression)
				if err != nil {
					return err
				}
				n, err := writeSnapshotFile(snapshot, ds, ct)
				if err != nil {
					return err
				}
				summary.Snapshot, summary.Bytes = snapshot, n
			} else {
				spectra, velocities, err := a.openStores(cmd)
				if err != nil {
					return err
				}
				if err := ds.Load(cmd.Context(), spectra, velocities); err != nil {
					return err
				}
			}

			a.logger.Info("rows imported",
				zap.Int("spectra", summary.Spectra),
				zap.Int("velocities", summary.Velocities),
				zap.String("snapshot", summary.Snapshot))

			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "JSON-lines input file, - for stdin")
	cmd.Flags().StringVar(&snapshot, "out", "", "write a snapshot file instead of inserting into the store")
	cmd.Flags().StringVar(&compression, "compression", format.CompressionZstd.String(), "snapshot compression (none, zstd, s2, lz4)")

	return cmd
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { _ = f.Close() }, nil
}

func writeSnapshotFile(path string, ds store.Dataset, ct format.CompressionType) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	n, err := store.WriteSnapshot(f, ds, ct)
	if err != nil {
		_ = f.Close()
		return n, err
	}

	return n, f.Close()
}

// readRows parses JSON-lines rows. Blank lines are skipped.
func readRows(r io.Reader, clock timeline.Clock) (store.Dataset, error) {
	var ds store.Dataset

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := appendRow(&ds, line, clock); err != nil {
			return store.Dataset{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return store.Dataset{}, err
	}

	return ds, nil
}

func appendRow(ds *store.Dataset, line string, clock timeline.Clock) error {
	if !gjson.Valid(line) {
		return errors.New("invalid JSON")
	}

	fields := gjson.GetMany(line, "kind", "channelId", "ts", "freq", "amplitude", "values")
	kind, channel, tsField := fields[0], fields[1], fields[2]

	if channel.Type != gjson.Number {
		return errors.New("channelId must be a number")
	}
	ts, ok, err := clock.Parse(tsField.String())
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("ts is required")
	}

	velocity := false
	switch kind.String() {
	case "spectrum":
	case "velocity":
		velocity = true
	case "":
		velocity = fields[5].Exists() && !fields[3].Exists()
	default:
		return fmt.Errorf("unknown kind %q", kind.String())
	}

	if velocity {
		ds.Velocities = append(ds.Velocities, telemetry.VelocityRow{
			Channel: int(channel.Int()),
			Ts:      ts,
			Values:  fields[5].String(),
		})

		return nil
	}

	ds.Spectra = append(ds.Spectra, telemetry.SpectrumRow{
		Channel:   int(channel.Int()),
		Ts:        ts,
		Freq:      fields[3].String(),
		Amplitude: fields[4].String(),
	})

	return nil
}
