package n2k

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedLine indicates that raw line did not have enough tokens to be a frame (timestamp, direction, message id)
	ErrMalformedLine = errors.New("raw line is malformed")
	// ErrInvalidByte indicates that payload token was not valid hex byte (0x00 - 0xFF)
	ErrInvalidByte = errors.New("raw line contains invalid payload byte")
)

// Direction indicates if frame was received from or transmitted to the NMEA bus by the gateway.
type Direction uint8

const (
	// DirectionReceived marks frame read from the bus (`R` on the wire)
	DirectionReceived Direction = iota
	// DirectionTransmitted marks frame the gateway itself sent to the bus (`T` on the wire)
	DirectionTransmitted
)

func (d Direction) String() string {
	if d == DirectionTransmitted {
		return "T"
	}
	return "R"
}

// RawFrame is single undecoded frame read from the gateway. Frame is immutable once parsed and
// is discarded after its fields have been decoded.
type RawFrame struct {
	// Timestamp is gateway provided time token (HH:MM:SS.mmm). Gateway clock, not host clock.
	Timestamp string
	Direction Direction
	MessageID uint32
	Data      []byte
}

// PGN derives Parameter Group Number from frame message ID.
func (f RawFrame) PGN() uint32 {
	return PGNFromMessageID(f.MessageID)
}

// PGNFromMessageID extracts PGN from 29bit CAN message ID. Low 8 bits are source address and
// are discarded, following 18 bits are the PGN.
func PGNFromMessageID(messageID uint32) uint32 {
	return (messageID >> 8) & 0x3FFFF
}

// ParseRawLine parses single gateway RAW mode line into RawFrame.
//
// Example: `00:34:02.718 R 09F80123 15 CD 5B 07 EB 32 A4 F8`
// Tokens are: timestamp, direction (R/T), hex message ID and zero or more hex payload bytes.
func ParseRawLine(line string) (RawFrame, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return RawFrame{}, fmt.Errorf("%w: expected at least 3 tokens, got %v", ErrMalformedLine, len(tokens))
	}

	var direction Direction
	switch tokens[1] {
	case "R":
		direction = DirectionReceived
	case "T":
		direction = DirectionTransmitted
	default:
		return RawFrame{}, fmt.Errorf("%w: unknown direction token %q", ErrMalformedLine, tokens[1])
	}

	messageID, err := strconv.ParseUint(tokens[2], 16, 32)
	if err != nil {
		return RawFrame{}, fmt.Errorf("%w: invalid message id %q", ErrMalformedLine, tokens[2])
	}

	data := make([]byte, 0, len(tokens)-3)
	for _, token := range tokens[3:] {
		b, err := strconv.ParseUint(token, 16, 8)
		if err != nil {
			return RawFrame{}, fmt.Errorf("%w: %q", ErrInvalidByte, token)
		}
		data = append(data, byte(b))
	}

	return RawFrame{
		Timestamp: tokens[0],
		Direction: direction,
		MessageID: uint32(messageID),
		Data:      data,
	}, nil
}
