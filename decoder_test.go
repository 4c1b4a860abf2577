package n2k

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderDecodePositionRapidUpdate(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	frame := RawFrame{
		Timestamp: "00:34:02.718",
		Direction: DirectionReceived,
		MessageID: 0x09F80123, // PGN 129025
		Data:      []byte{0x15, 0xCD, 0x5B, 0x07, 0xEB, 0x32, 0xA4, 0xF8},
	}
	decoded := decoder.Decode(frame)

	require.Len(t, decoded, 2)
	assert.Equal(t, "Latitude", decoded[0].ID)
	assert.InDelta(t, 12.3456789, decoded[0].Value, 1e-9)
	assert.Equal(t, "Longitude", decoded[1].ID)
	assert.InDelta(t, -12.3456789, decoded[1].Value, 1e-9)

	snapshot := store.Snapshot()
	assert.InDelta(t, 12.3456789, snapshot["Latitude"], 1e-9)
	assert.InDelta(t, -12.3456789, snapshot["Longitude"], 1e-9)
}

func TestDecoderDecodeVesselHeading(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	frame := RawFrame{
		MessageID: 0x0DF11223, // PGN 127250
		Data:      []byte{0x00, 0x00, 0x10},
	}
	decoded := decoder.Decode(frame)

	// SID is consumed for offset bookkeeping but not published for this PGN
	require.Len(t, decoded, 1)
	assert.Equal(t, "Heading", decoded[0].ID)
	assert.InDelta(t, 0.4096*180/math.Pi, decoded[0].Value, 1e-9)

	heading, ok := store.Value("Heading")
	require.True(t, ok)
	assert.InDelta(t, 0.4096*180/math.Pi, heading, 1e-9)

	_, ok = store.Value("SID")
	assert.False(t, ok)
}

func TestDecoderDecodeAttitude(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	frame := RawFrame{
		MessageID: 0x0DF11923, // PGN 127257
		Data:      []byte{0x01, 0x00, 0x20, 0x60, 0xF0, 0x64, 0x00},
	}
	decoded := decoder.Decode(frame)

	require.Len(t, decoded, 3)
	expected := FieldValues{
		{ID: "Yaw", Value: 0.8192 * 180 / math.Pi},
		{ID: "Pitch", Value: -0.4 * 180 / math.Pi},
		{ID: "Roll", Value: 0.01 * 180 / math.Pi},
	}
	for _, e := range expected {
		fv, ok := decoded.FindByID(e.ID)
		require.True(t, ok, "missing field %v", e.ID)
		assert.InDelta(t, e.Value, fv.Value, 1e-9)
	}
}

func TestDecoderDecodeCOGSOGPublishesOnlySID(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	frame := RawFrame{
		MessageID: 0x09F80223, // PGN 129026
		Data:      []byte{0x01, 0x00, 0xAE, 0x3A, 0x64, 0x00},
	}
	decoded := decoder.Decode(frame)

	// COG, SOG and COG Reference have no registered decoder, only their offsets are consumed.
	// 129026 is the one PGN where SID is published.
	require.Len(t, decoded, 1)
	assert.Equal(t, FieldValue{ID: "SID", Value: uint64(1)}, decoded[0])

	snapshot := store.Snapshot()
	assert.Equal(t, map[string]interface{}{"SID": uint64(1)}, snapshot)
}

func TestDecoderDecodeUnknownPGNIsNoop(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	frame := RawFrame{
		MessageID: 0x15FD0800, // PGN 130312 Temperature, not in registry
		Data:      []byte{0xFF, 0x00, 0x01, 0xCA, 0x6F, 0xFF, 0xFF, 0xFF},
	}
	decoded := decoder.Decode(frame)

	assert.Nil(t, decoded)
	assert.Empty(t, store.Snapshot())
}

func TestDecoderDecodeTruncatedAttitude(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	// 3 of the expected 7 bytes: SID and Yaw fit, Pitch and Roll do not
	frame := RawFrame{
		MessageID: 0x0DF11923, // PGN 127257
		Data:      []byte{0x00, 0x00, 0x20},
	}
	decoded := decoder.Decode(frame)

	require.Len(t, decoded, 1)
	assert.Equal(t, "Yaw", decoded[0].ID)
	assert.InDelta(t, 0.8192*180/math.Pi, decoded[0].Value, 1e-9)

	_, ok := store.Value("Pitch")
	assert.False(t, ok)
	_, ok = store.Value("Roll")
	assert.False(t, ok)
}

func TestDecoderDecodeIsIdempotent(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	frame := RawFrame{
		MessageID: 0x09F80123, // PGN 129025
		Data:      []byte{0x15, 0xCD, 0x5B, 0x07, 0xEB, 0x32, 0xA4, 0xF8},
	}

	decoder.Decode(frame)
	first := store.Snapshot()
	decoder.Decode(frame)
	second := store.Snapshot()

	assert.Equal(t, first, second)
}

func TestDecoderDecodeOverwritesPreviousValue(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	decoder.Decode(RawFrame{
		MessageID: 0x0DF11223,
		Data:      []byte{0x00, 0x00, 0x10},
	})
	decoder.Decode(RawFrame{
		MessageID: 0x0DF11223,
		Data:      []byte{0x00, 0x00, 0x20},
	})

	heading, ok := store.Value("Heading")
	require.True(t, ok)
	assert.InDelta(t, 0.8192*180/math.Pi, heading, 1e-9)
}

func TestDecoderDecodeFieldsAcrossPGNsCoexist(t *testing.T) {
	store := NewTelemetryStore()
	decoder := NewDecoder(store, zerolog.Nop())

	decoder.Decode(RawFrame{
		MessageID: 0x09F80123, // PGN 129025
		Data:      []byte{0x15, 0xCD, 0x5B, 0x07, 0xEB, 0x32, 0xA4, 0xF8},
	})
	decoder.Decode(RawFrame{
		MessageID: 0x0DF11223, // PGN 127250
		Data:      []byte{0x00, 0x00, 0x10},
	})

	snapshot := store.Snapshot()
	assert.Contains(t, snapshot, "Latitude")
	assert.Contains(t, snapshot, "Longitude")
	assert.Contains(t, snapshot, "Heading")
}
