package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()

	require.Implements(t, (*EndianEngine)(nil), engine)
	require.Equal(t, binary.LittleEndian, engine)

	var testValue uint16 = 0x0102
	bytes := make([]byte, 2)
	engine.PutUint16(bytes, testValue)
	// Little endian should put LSB first
	require.Equal(t, byte(0x02), bytes[0])
	require.Equal(t, byte(0x01), bytes[1])
	require.Equal(t, testValue, engine.Uint16(bytes))
}

func TestGetBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()

	require.Implements(t, (*EndianEngine)(nil), engine)
	require.Equal(t, binary.BigEndian, engine)

	var testValue uint16 = 0x0102
	bytes := make([]byte, 2)
	engine.PutUint16(bytes, testValue)
	// Big endian should put MSB first
	require.Equal(t, byte(0x01), bytes[0])
	require.Equal(t, byte(0x02), bytes[1])
	require.Equal(t, testValue, engine.Uint16(bytes))
}

func TestEngineFor(t *testing.T) {
	require.Equal(t, GetBigEndianEngine(), EngineFor(true))
	require.Equal(t, GetLittleEndianEngine(), EngineFor(false))
}

func TestIsBigEndian(t *testing.T) {
	require.True(t, IsBigEndian(GetBigEndianEngine()))
	require.False(t, IsBigEndian(GetLittleEndianEngine()))
}

func TestEngine_AppendRoundTrip(t *testing.T) {
	for _, bigEndian := range []bool{false, true} {
		engine := EngineFor(bigEndian)

		buf := engine.AppendUint32(nil, 0xDEADBEEF)
		buf = engine.AppendUint64(buf, 0x0102030405060708)
		require.Len(t, buf, 12)

		require.Equal(t, uint32(0xDEADBEEF), engine.Uint32(buf[0:4]))
		require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf[4:12]))
	}
}
