// Where: internal/infra/logging/logger.go
// What: Structured diagnostic logger construction.
// Why: Keep zap setup in one place; callers only see logr.
package logging

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logr V().
const (
	DEFAULT = 0
	DEBUG   = 1
	TRACE   = 2
)

// New returns a console logger writing to out. verbose enables V(DEBUG).
func New(out io.Writer, verbose bool) logr.Logger {
	if out == nil {
		out = os.Stderr
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.Level(-DEBUG)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(out),
		zap.NewAtomicLevelAt(level),
	)
	return zapr.NewLogger(zap.New(core))
}
