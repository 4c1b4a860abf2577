package n2k

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	// angleResolution is multiplier to convert raw 16bit angle field (0.0001 per LSB) to value
	angleResolution = 1e-4
	// coordinateResolution is multiplier to convert raw 32bit coordinate field to decimal degrees
	coordinateResolution = 1e-7
)

// ErrInsufficientData indicates that decoder was given less bytes than field requires
var ErrInsufficientData = errors.New("insufficient data to decode field")

// FieldValue holds decoded value for single PGN field.
type FieldValue struct {
	// ID is field name from PGN schema (e.g. `Latitude`, `Heading`)
	ID string `json:"id"`
	// Value is normalized to: float64, uint64 or string
	Value interface{} `json:"value"`
}

// FieldValues is slice of FieldValue
type FieldValues []FieldValue

func (fvs FieldValues) FindByID(ID string) (FieldValue, bool) {
	for _, f := range fvs {
		if f.ID == ID {
			return f, true
		}
	}
	return FieldValue{}, false
}

// FieldDecoder converts field raw bytes (little endian) into physical value. Decoders are
// stateless, the caller is responsible for slicing correct byte range out of the payload.
type FieldDecoder func(data []byte) (interface{}, error)

// fieldDecoders maps field name to its decoder. Table is built once and never mutated. Note
// that dispatch is by field name and not by PGN, so `Heading` (unsigned) and `Yaw` (signed)
// use different decoders even though both are 16bit angles. Fields without a decoder here
// (e.g. `COG`, `SOG`) are skipped by the decode pipeline, only their offset is consumed.
var fieldDecoders = map[string]FieldDecoder{
	"SID":       decodeUint8Field,
	"A":         decodeUint8Field,
	"B":         decodeUint8Field,
	"Heading":   decodeAngleU16Field,
	"Deviation": decodeAngleI16Field,
	"Variation": decodeAngleI16Field,
	"Yaw":       decodeAngleI16Field,
	"Pitch":     decodeAngleI16Field,
	"Roll":      decodeAngleI16Field,
	"Reference": decodeLookupField,
	"Date":      decodeDateField,
	"Time":      decodeTimeField,
	"Latitude":  decodeLatitudeI32Field,
	"Longitude": decodeLongitudeI32Field,
}

// DecoderFor returns decoder registered for given field name.
func DecoderFor(name string) (FieldDecoder, bool) {
	d, ok := fieldDecoders[name]
	return d, ok
}

func decodeUint8Field(data []byte) (interface{}, error) {
	return uint64(data[0]), nil
}

func decodeAngleU16Field(data []byte) (interface{}, error) {
	return float64(binary.LittleEndian.Uint16(data)) * angleResolution, nil
}

// decodeAngleI16Field is the only decoder with an explicit length guard.
func decodeAngleI16Field(data []byte) (interface{}, error) {
	if len(data) != 2 {
		return nil, fmt.Errorf("%w: expected 2 bytes, got %v bytes", ErrInsufficientData, len(data))
	}
	return float64(int16(binary.LittleEndian.Uint16(data))) * angleResolution, nil
}

func decodeLookupField(data []byte) (interface{}, error) {
	return uint64(binary.LittleEndian.Uint16(data)), nil
}

func decodeLatitudeI32Field(data []byte) (interface{}, error) {
	return float64(int32(binary.LittleEndian.Uint32(data))) * coordinateResolution, nil
}

func decodeLongitudeI32Field(data []byte) (interface{}, error) {
	return float64(int32(binary.LittleEndian.Uint32(data))) * coordinateResolution, nil
}

// decodeDateField converts 16bit count of days since 1970-01-01 to `YYYY-MM-DD` date in UTC.
func decodeDateField(data []byte) (interface{}, error) {
	daysSinceEpoch := binary.LittleEndian.Uint16(data)
	return time.Unix(int64(daysSinceEpoch)*86400, 0).UTC().Format("2006-01-02"), nil
}

// decodeTimeField converts 32bit count of 0.0001 second ticks since midnight to `HH:MM:SS.mmm`.
func decodeTimeField(data []byte) (interface{}, error) {
	secondsSinceMidnight := float64(binary.LittleEndian.Uint32(data)) * 0.0001
	hours := int(secondsSinceMidnight / 3600)
	minutes := int(secondsSinceMidnight/60) % 60
	seconds := secondsSinceMidnight - float64(hours*3600+minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, seconds), nil
}
