package n2k

import (
	"context"
)

// RawFrameReader is transport that produces raw frames, one per input line. Implementations
// live in their own packages (e.g. ydnu for Yacht Devices USB gateway).
type RawFrameReader interface {
	// ReadRawFrame blocks until next complete frame is read, read error occurs or ctx is done.
	ReadRawFrame(ctx context.Context) (RawFrame, error)
	// Initialize is called once before first read to switch the transport into raw frame mode.
	Initialize() error
	Close() error
}
