package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/vibra/encoding"
	"github.com/arloliu/vibra/format"
)

func newEncodeCmd(_ *app) *cobra.Command {
	var encName string

	cmd := &cobra.Command{
		Use:   "encode <v1,v2,...>",
		Short: "Pack numbers into a base64 array",
		Long: "Pack comma- or whitespace-separated numbers (or a JSON array) into a base64 array.\n" +
			"Integer encodings round and saturate to the int16 range.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.ParseElementEncoding(encName)
			if err != nil {
				return err
			}

			values := encoding.ParseDelimited(args[0])
			if len(values) == 0 {
				return fmt.Errorf("no values in %q", args[0])
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), encoding.EncodeBase64(encoding.EncodeElements(enc, values)))

			return err
		},
	}
	cmd.Flags().StringVar(&encName, "encoding", format.F64LE.String(), "element encoding (f32le, f32be, f64le, f64be, i16le, i16be)")

	return cmd
}
