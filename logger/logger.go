package logger

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/teamreflex/challonge-go/challongectx"
)

var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// enable pretty printing for interactive terminals and json for production.
func init() {
	// for tty terminal enable pretty logs
	if isatty.IsTerminal(os.Stderr.Fd()) && runtime.GOOS != "windows" {
		Log = Log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		// UNIX Time is faster and smaller than most timestamps
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	}
	// by default only log warnings and errors
	SetLogLevel(zerolog.WarnLevel)
}

func SetLogLevel(l zerolog.Level) {
	Log = Log.Level(l)
}

func SetLogOutput(w io.Writer) {
	Log = Log.Output(w)
}

// WithContext returns a logger populated with the correlation and request ids found in ctx.
func WithContext(ctx context.Context) *zerolog.Logger {
	lc := Log.With()
	if corrId := challongectx.CorrelationIdFromContext(ctx); corrId != "" {
		lc = lc.Str("corrId", corrId)
	}
	if reqId := challongectx.RequestIdFromContext(ctx); reqId != "" {
		lc = lc.Str("reqId", reqId)
	}
	l := lc.Logger()
	return &l
}
