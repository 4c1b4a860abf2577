// Package ydnu implements Yacht Devices YDNU-02 USB gateway transport. Gateway is switched
// into RAW mode at startup and then outputs one ASCII frame per line.
package ydnu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	n2k "github.com/marinetel/go-n2k-telemetry"
)

// rawModeCommand switches the gateway into RAW frame output mode.
const rawModeCommand = "YDNU MODE RAW\r\n"

// rawModeSettleDelay is how long gateway needs after mode switch before first usable frame.
const rawModeSettleDelay = 1 * time.Second

type Config struct {
	// ReceiveDataTimeout is maximum amount of time reads are allowed to return no data (serial
	// read timeouts surface as EOF) before ReadRawFrame gives up. Zero means first EOF ends the
	// read, which is what you want when the source is an ordinary file.
	ReceiveDataTimeout time.Duration

	// DebugLogRawFrameBytes instructs device to log every assembled line before parsing
	DebugLogRawFrameBytes bool

	Logger zerolog.Logger
}

// Device reads RAW mode lines from the gateway serial stream and parses them to frames.
//
// Note: is not go-routine safe
type Device struct {
	device    io.ReadWriter
	timeNow   func() time.Time
	sleepFunc func(d time.Duration)

	readBuffer []byte
	readIndex  int

	config Config
	logger zerolog.Logger
}

// NewDevice creates new YDNU-02 gateway instance on top of given serial stream.
func NewDevice(device io.ReadWriter, config Config) *Device {
	return &Device{
		device:     device,
		timeNow:    time.Now,
		sleepFunc:  time.Sleep,
		readBuffer: make([]byte, 200),
		config:     config,
		logger:     config.Logger,
	}
}

// Initialize sends raw mode handshake to the gateway and waits for it to settle. Must be
// called once before first ReadRawFrame, otherwise gateway keeps producing NMEA 0183
// sentences instead of raw frames.
func (d *Device) Initialize() error {
	if _, err := d.device.Write([]byte(rawModeCommand)); err != nil {
		return fmt.Errorf("ydnu raw mode handshake write failure: %w", err)
	}
	d.sleepFunc(rawModeSettleDelay)
	return nil
}

func (d *Device) Close() error {
	if c, ok := d.device.(io.Closer); ok {
		return c.Close()
	}
	return errors.New("device does not implement Closer interface")
}

// ReadRawFrame assembles next `\n` terminated line from the stream and parses it to RawFrame.
// Lines that are not received frames (transmit echos, blank lines) are skipped silently,
// garbage lines return an error but leave the device usable for the next read.
func (d *Device) ReadRawFrame(ctx context.Context) (n2k.RawFrame, error) {
	// Example: `00:34:02.718 R 15FD0800 FF 00 01 CA 6F FF FF FF\r\n`
	buf := make([]byte, 100)
	lastReadWithData := d.timeNow()

	for {
		select {
		case <-ctx.Done():
			return n2k.RawFrame{}, ctx.Err()
		default:
		}

		n, err := d.device.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return n2k.RawFrame{}, err
		}
		now := d.timeNow()
		if n == 0 {
			if errors.Is(err, io.EOF) && now.Sub(lastReadWithData) >= d.config.ReceiveDataTimeout {
				return n2k.RawFrame{}, io.EOF
			}
			continue
		}
		lastReadWithData = now

		if d.readIndex+n > len(d.readBuffer) {
			// line longer than any valid frame, discard what we have and resynchronize
			d.logger.Debug().Int("discarded_bytes", d.readIndex).Msg("ydnu read buffer overflow")
			d.readIndex = 0
		}

		endIndex := bytes.IndexByte(buf[0:n], '\n')
		if endIndex == -1 { // no end of line seen. add this chunk to buffer and try reading more
			copy(d.readBuffer[d.readIndex:], buf[0:n])
			d.readIndex += n
			continue
		}
		// end of line found, append read chunk up to it to previously buffered data
		copy(d.readBuffer[d.readIndex:], buf[0:endIndex]) // note: \n excluded
		d.readIndex += endIndex

		line := string(d.readBuffer[0:d.readIndex])
		if d.config.DebugLogRawFrameBytes {
			d.logger.Debug().Str("line", line).Msg("ydnu raw frame line")
		}
		frame, skip, err := parseLine(line)

		// reset read buffer to whatever was read past current line end. probably nothing but
		// could be start of the next frame
		copy(d.readBuffer, buf[endIndex+1:n])
		d.readIndex = n - (endIndex + 1)

		if skip {
			continue
		}
		return frame, err
	}
}

func parseLine(line string) (n2k.RawFrame, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" { // skippable - gateway keepalives and lone line terminators
		return n2k.RawFrame{}, true, nil
	}
	frame, err := n2k.ParseRawLine(line)
	if err != nil {
		return n2k.RawFrame{}, false, err
	}
	if frame.Direction != n2k.DirectionReceived { // skippable - echo of frame the gateway sent
		return n2k.RawFrame{}, true, nil
	}
	return frame, false, nil
}
