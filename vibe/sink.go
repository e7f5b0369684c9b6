package vibe

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives diagnostics from the retry controller: attempt starts, raw
// backend responses, per-attempt failures, and terminal outcomes. It is a
// pass-through side channel and never affects call results.
type Sink interface {
	Attempt(callID string, attempt, total int, prompt string)
	Response(callID string, attempt int, raw string)
	Failure(callID string, attempt int, err error)
	Success(callID string, attempt int)
}

// NopSink discards all diagnostics.
type NopSink struct{}

func (NopSink) Attempt(string, int, int, string) {}
func (NopSink) Response(string, int, string)     {}
func (NopSink) Failure(string, int, error)       {}
func (NopSink) Success(string, int)              {}

// ZapSink logs diagnostics through a zap logger. Attempt starts and raw
// responses go to debug, failures to warn, terminal successes to info.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log.Named("vibe")}
}

func (s *ZapSink) Attempt(callID string, attempt, total int, prompt string) {
	s.log.Debug("attempt",
		zap.String("call", callID),
		zap.Int("attempt", attempt),
		zap.Int("of", total),
		zap.String("prompt", prompt),
	)
}

func (s *ZapSink) Response(callID string, attempt int, raw string) {
	s.log.Debug("response",
		zap.String("call", callID),
		zap.Int("attempt", attempt),
		zap.String("raw", raw),
	)
}

func (s *ZapSink) Failure(callID string, attempt int, err error) {
	s.log.Warn("attempt failed",
		zap.String("call", callID),
		zap.Int("attempt", attempt),
		zap.Error(err),
	)
}

func (s *ZapSink) Success(callID string, attempt int) {
	s.log.Info("attempt succeeded",
		zap.String("call", callID),
		zap.Int("attempt", attempt),
	)
}

// DefaultSink builds the sink used when Config.Sink is nil. The
// VIBE_LOG_LEVEL environment variable ("debug", "info", "warn", "error")
// enables console logging; unset or unparseable means no output.
func DefaultSink() Sink {
	raw := strings.TrimSpace(os.Getenv("VIBE_LOG_LEVEL"))
	if raw == "" {
		return NopSink{}
	}
	var lvl zapcore.Level
	if err := lvl.Set(strings.ToLower(raw)); err != nil {
		return NopSink{}
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := cfg.Build()
	if err != nil {
		return NopSink{}
	}
	return NewZapSink(log)
}
