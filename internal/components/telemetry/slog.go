package telemetry

import (
	"fmt"
	"log/slog"
	"os"
)

// SlogAPI writes reports to a slog logger, slog.Default() when Logger is nil.
// Error params are logged under "err", the rest as "params.<n>".
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func attrs(id string, params []any) []any {
	out := make([]any, 0, 2+2*len(params))
	if id != "" {
		out = append(out, "id", id)
	}
	for i, p := range params {
		if err, ok := p.(error); ok {
			out = append(out, "err", err)
			continue
		}
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("broken component", attrs(id, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("warning", attrs(id, params)...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	s.logger().Debug(message, attrs("", params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.logger().Info("count", "id", id, "n", count)
}

// InitSlog installs the default logger, verbose enables debug output.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
