// Package engine wraps the Ebiten audio stack behind the narrow surface the
// music manager drives: sound lifecycle, fade ramps, scheduled stops, and a
// global volume. Files reach the mixer only through the vfs bridge.
package engine

import "github.com/rs/zerolog"

// LogLevel is the engine's four-level severity vocabulary.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// logSink maps engine log messages onto the host's structured logger. It is
// the first facade component built and the last torn down.
type logSink struct {
	zl zerolog.Logger
}

func newLogSink(zl zerolog.Logger) *logSink {
	return &logSink{zl: zl.With().Str("component", "audio-engine").Logger()}
}

func (s *logSink) Post(level LogLevel, msg string) {
	switch level {
	case LevelDebug:
		s.zl.Debug().Msg(msg)
	case LevelInfo:
		s.zl.Info().Msg(msg)
	case LevelWarning:
		s.zl.Warn().Msg(msg)
	default:
		s.zl.Error().Msg(msg)
	}
}
