package telemetry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
)

const (
	// ParseErrorsThreshold defines the number of consecutive parse errors allowed
	ParseErrorsThreshold = 5
)

var (
	// ErrTooManyParseErrors is returned when the number of consecutive parse errors exceeds the threshold
	ErrTooManyParseErrors = errors.New("too many consecutive parse errors")

	// ErrBrokenPipe is returned when there's an error reading from the source
	ErrBrokenPipe = errors.New("broken pipe")
)

// Line is a decoded telemetry line
type Line struct {
	Number int    // 1-based line number in the source
	Text   string // Trimmed line text
	Record Record
}

// Handler receives decoded lines in source order. Returning an error stops the stream.
type Handler func(ctx context.Context, line Line) error

// WithLogger sets the logger for the stream
func WithLogger(logger *slog.Logger) func(s *Stream) {
	return func(s *Stream) {
		s.logger = logger
	}
}

// WithParseErrorsThreshold sets the threshold for consecutive parse errors.
// Zero disables the threshold.
func WithParseErrorsThreshold(threshold uint8) func(s *Stream) {
	return func(s *Stream) {
		s.parseErrorsThreshold = threshold
	}
}

// Decoder turns a single telemetry line into a Record
type Decoder interface {
	Decode(line string) (Record, error)
}

// Stream reads telemetry lines from a source, decodes them and passes them to a Handler
type Stream struct {
	decoder Decoder

	parseErrorsThreshold uint8
	logger               *slog.Logger
}

// NewStream creates a new Stream with a discard logger
func NewStream(d Decoder, options ...func(s *Stream)) *Stream {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger

	s := Stream{
		decoder:              d,
		logger:               logger,
		parseErrorsThreshold: ParseErrorsThreshold,
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Run reads r line by line until EOF, the context is cancelled, the handler
// fails or too many consecutive lines fail to decode. Blank lines are skipped.
// Lines that fail to decode are logged and skipped.
func (s *Stream) Run(ctx context.Context, r io.Reader, h Handler) error {
	var parseErrors uint8
	var number int

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		number++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		record, err := s.decoder.Decode(line)
		if err != nil {
			parseErrors++
			s.logger.Warn(fmt.Sprintf("error parsing telemetry: %s", err.Error()), slog.Int("lineNumber", number), slog.String("line", line))

			if s.parseErrorsThreshold > 0 && parseErrors >= s.parseErrorsThreshold {
				return fmt.Errorf("%w: last at line %d", ErrTooManyParseErrors, number)
			}

			continue
		}

		parseErrors = 0 // reset counter

		if err = h(ctx, Line{Number: number, Text: line, Record: record}); err != nil {
			return fmt.Errorf("handling line %d: %w", number, err)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		return fmt.Errorf("%w: error reading telemetry: %w", ErrBrokenPipe, err)
	}

	return nil
}
