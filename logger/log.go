package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const (
	CategoryField = "category"
)

const (
	CategoryNetwork = "network"
	CategoryRender  = "render"
	CategoryServer  = "server"
	CategoryStore   = "store"
)

var _ = func() any {
	zerolog.TimeFieldFormat = time.DateTime
	return nil
}()

func WithCategory(category string) func(e *zerolog.Event) {
	return func(e *zerolog.Event) {
		e.Str(CategoryField, category)
	}
}

// Console is the stdout half of every logger built by New.
func Console(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    false,
		TimeFormat: time.DateTime,
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s: ", i)
		},
		FieldsOrder: []string{"request_id", CategoryField, "endpoint"},
	}
}

// New builds the process logger: plain JSON lines appended to file plus a console copy on stdout.
// The returned closer releases the log file.
func New(file, level string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	out := zerolog.MultiLevelWriter(f, Console(os.Stdout))
	log := zerolog.New(out).Level(lvl).With().Timestamp().Logger()

	return log, f, nil
}

// NewWriter is New without the file, for tests and embedding.
func NewWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func NewStdLog(log zerolog.Logger, endpoint string, req []byte, result []byte) {
	e := log.Debug().Str("endpoint", endpoint)
	if len(req) > 0 {
		e = e.RawJSON("request", req)
	}
	e.Bytes("response", result).Send()
}
