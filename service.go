package n2k

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// Service is the acquisition loop: it pulls frames from the transport and drives the decode
// pipeline for process lifetime. Corrupt or unrecognized input never stops the loop, only
// ctx cancellation or transport EOF ends it.
type Service struct {
	device  RawFrameReader
	decoder *Decoder
	logger  zerolog.Logger
}

func NewService(device RawFrameReader, decoder *Decoder, logger zerolog.Logger) *Service {
	return &Service{
		device:  device,
		decoder: decoder,
		logger:  logger,
	}
}

// Run reads and decodes frames until ctx is cancelled or the transport reaches EOF.
// Returns context error on cancellation and io.EOF when transport is exhausted so that
// callers can distinguish clean file end from an ordered shutdown.
func (s *Service) Run(ctx context.Context) error {
	for {
		frame, err := s.device.ReadRawFrame(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			s.logger.Warn().Err(err).Msg("failed to read raw frame")
			continue
		}
		s.decoder.Decode(frame)
	}
}
