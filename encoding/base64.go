package encoding

import (
	"encoding/base64"
	"strings"
)

// DecodeBase64 decodes standard-alphabet base64 text with optional padding.
//
// Blank or malformed input returns (nil, false); it never returns an error, since
// an undecodable blob is a normal outcome for telemetry columns. Embedded line
// breaks are malformed.
func DecodeBase64(s string) ([]byte, bool) {
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, "\r\n") {
		return nil, false
	}

	enc := base64.StdEncoding
	if !strings.HasSuffix(s, "=") && len(s)%4 != 0 {
		enc = base64.RawStdEncoding
	}

	data, err := enc.DecodeString(s)
	if err != nil {
		return nil, false
	}

	return data, true
}

// EncodeBase64 encodes data as padded standard-alphabet base64.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
