package n2k

import (
	"math"

	"github.com/rs/zerolog"
)

const fieldNameSID = "SID"

// Decoder decodes raw frames into field values and publishes them into TelemetryStore.
// Decoder itself is stateless across frames, all state lives in the store.
type Decoder struct {
	store  *TelemetryStore
	logger zerolog.Logger
}

func NewDecoder(store *TelemetryStore, logger zerolog.Logger) *Decoder {
	return &Decoder{
		store:  store,
		logger: logger,
	}
}

// Decode decodes all fields of given frame and upserts them into the store. Returns decoded
// fields in schema order. Unknown PGNs return nil without error, decoding only subset of the
// PGN space is normal operation. Malformed payloads never fail the whole frame: too short
// payload is logged and fields that do not fit are skipped one by one, a failing field
// decoder is logged and its siblings are still decoded. Offset always advances by the
// declared field length no matter the outcome.
func (d *Decoder) Decode(frame RawFrame) FieldValues {
	schema, ok := SchemaFor(frame.PGN())
	if !ok {
		return nil
	}

	if expected := schema.ExpectedByteCount(); len(frame.Data) < expected {
		d.logger.Warn().
			Uint32("pgn", schema.PGN).
			Str("schema", schema.Name).
			Int("expected_bytes", expected).
			Int("actual_bytes", len(frame.Data)).
			Msg("payload is shorter than schema expects")
	}

	decoded := make(FieldValues, 0, len(schema.Fields))
	offset := 0
	for _, field := range schema.Fields {
		start := offset
		offset += field.Length

		if field.Name == fieldNameSID && !schema.DecodeSID {
			continue
		}
		decoder, ok := DecoderFor(field.Name)
		if !ok {
			continue
		}
		if offset > len(frame.Data) {
			d.logger.Warn().
				Uint32("pgn", schema.PGN).
				Str("field", field.Name).
				Int("offset", start).
				Int("length", field.Length).
				Int("payload_bytes", len(frame.Data)).
				Msg("field is out of payload bounds, skipping")
			continue
		}

		value, err := decoder(frame.Data[start:offset])
		if err != nil {
			d.logger.Warn().
				Err(err).
				Uint32("pgn", schema.PGN).
				Str("field", field.Name).
				Hex("data", frame.Data[start:offset]).
				Msg("failed to decode field")
			continue
		}

		if schema.AngleToDegrees {
			if radians, ok := value.(float64); ok {
				value = radians * 180 / math.Pi
			}
		}

		d.store.Update(field.Name, value)
		decoded = append(decoded, FieldValue{ID: field.Name, Value: value})
	}
	return decoded
}
