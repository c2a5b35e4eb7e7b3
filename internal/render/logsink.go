package render

import (
	"log/slog"

	"github.com/angeloszaimis/statusprobe/internal/classify"
)

// LogSink writes render events to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Render(handle string, st classify.Status, displayText string) {
	attrs := []any{
		slog.String("target", handle),
		slog.String("status", st.Level.String()),
		slog.String("display", displayText),
	}

	switch st.Level {
	case classify.Checking:
		s.logger.Debug("Target check started", attrs...)
	case classify.Down:
		s.logger.Warn("Target unreachable", attrs...)
	default:
		s.logger.Info("Target reachable", attrs...)
	}
}
