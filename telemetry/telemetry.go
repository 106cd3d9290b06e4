// Package telemetry defines the stored rows and decoded records of vibration
// sensor telemetry.
//
// Rows hold blobs exactly as stored: base64 text of undeclared binary layout.
// Records hold the decoded float64 sequences produced by the codec package.
package telemetry

import (
	"time"

	"github.com/arloliu/vibra/format"
)

// SpectrumRow is one stored frequency spectrum.
//
// Freq and Amplitude are base64 blobs that were written with the same, unrecorded,
// element encoding.
type SpectrumRow struct {
	Channel   int       `json:"channelId" msgpack:"ch"`
	Ts        time.Time `json:"ts" msgpack:"ts"`
	Freq      string    `json:"freq" msgpack:"f"`
	Amplitude string    `json:"amplitude" msgpack:"a"`
}

// ChannelID returns the channel of the row.
func (r SpectrumRow) ChannelID() int { return r.Channel }

// Timestamp returns the recording instant of the row.
func (r SpectrumRow) Timestamp() time.Time { return r.Ts }

// VelocityRow is one stored velocity waveform. Values is a base64 blob holding
// either numeric text or packed little-endian floats.
type VelocityRow struct {
	Channel int       `json:"channelId" msgpack:"ch"`
	Ts      time.Time `json:"ts" msgpack:"ts"`
	Values  string    `json:"values" msgpack:"v"`
}

// ChannelID returns the channel of the row.
func (r VelocityRow) ChannelID() int { return r.Channel }

// Timestamp returns the recording instant of the row.
func (r VelocityRow) Timestamp() time.Time { return r.Ts }

// SpectrumRecord is a decoded spectrum.
//
// Freq and Amplitude are always decoded under Encoding. Both are empty when no
// encoding produced a plausible frequency axis, which means "undecodable" rather
// than an empty spectrum; Decoded reports which case applies.
type SpectrumRecord struct {
	Channel   int                    `json:"channelId"`
	Ts        time.Time              `json:"ts"`
	Encoding  format.ElementEncoding `json:"encoding,omitempty"`
	Freq      Series                 `json:"freq"`
	Amplitude Series                 `json:"amplitude"`
}

// Decoded reports whether an encoding was found for the record.
func (r SpectrumRecord) Decoded() bool {
	return r.Encoding.Valid()
}

// VelocityRecord is a decoded velocity waveform. Values may contain NaN where a
// text token could not be parsed.
type VelocityRecord struct {
	Channel int       `json:"channelId"`
	Ts      time.Time `json:"ts"`
	Values  Series    `json:"values"`
}
