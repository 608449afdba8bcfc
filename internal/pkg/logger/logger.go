package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Gopher0727/StudyGroup/config"
)

// Logger is a zap logger that knows how to pick the trace ID out of a
// context and how to report rejected operations.
type Logger struct {
	*zap.Logger
	file *os.File
}

var levels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}

// NewLogger builds a logger from the logging section of the configuration.
// Unknown levels fall back to info. Format "json" selects the JSON encoder,
// output "file" appends to FilePath.
//
// Parameters:
//   - cfg: Logging configuration with level, format, output and file path
//
// Returns:
//   - *Logger: The configured logger; call Close when done
//   - error: Any error encountered while opening the log file
func NewLogger(cfg *config.LoggingConfig) (*Logger, error) {
	sink, file, err := openSink(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), sink, parseLogLevel(cfg.Level))
	return &Logger{
		Logger: zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)),
		file:   file,
	}, nil
}

func newEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.MessageKey = "message"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder

	if format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

// openSink returns the write target and, for file output, the handle that
// Close must release.
func openSink(cfg *config.LoggingConfig) (zapcore.WriteSyncer, *os.File, error) {
	if cfg.Output != "file" {
		return zapcore.Lock(os.Stdout), nil, nil
	}
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return zapcore.AddSync(f), f, nil
}

func parseLogLevel(level string) zapcore.Level {
	if lvl, ok := levels[level]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}

// NewDevelopmentLogger returns a console logger at debug level.
//
// Returns:
//   - *Logger: The development logger
//   - error: Any error encountered while building it
func NewDevelopmentLogger() (*Logger, error) {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: zl}, nil
}

// NewNop returns a logger that drops every entry.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) derive(zl *zap.Logger) *Logger {
	return &Logger{Logger: zl}
}

// Named returns a child logger for a component, e.g. "group_service".
func (l *Logger) Named(name string) *Logger {
	return l.derive(l.Logger.Named(name))
}

// WithFields returns a child logger with fields attached to every entry.
//
// Parameters:
//   - fields: Structured fields, e.g. zap.String("group_id", id)
//
// Returns:
//   - *Logger: The child logger
func (l *Logger) WithFields(fields ...zap.Field) *Logger {
	return l.derive(l.Logger.With(fields...))
}

// For returns l tagged with the trace ID carried by ctx. Without one it
// returns l unchanged.
func (l *Logger) For(ctx context.Context) *Logger {
	if id := GetTraceID(ctx); id != "" {
		return l.derive(l.Logger.With(zap.String(traceField, id)))
	}
	return l
}

// DebugContext logs at debug level with the trace ID from ctx.
func (l *Logger) DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.For(ctx).Debug(msg, fields...)
}

// InfoContext logs at info level with the trace ID from ctx.
func (l *Logger) InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.For(ctx).Info(msg, fields...)
}

// WarnContext logs at warn level with the trace ID from ctx.
func (l *Logger) WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.For(ctx).Warn(msg, fields...)
}

// ErrorContext logs at error level with the trace ID from ctx.
func (l *Logger) ErrorContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.For(ctx).Error(msg, fields...)
}

// Rejected records an operation refused by a domain rule at info level.
//
// Parameters:
//   - ctx: Context carrying the trace ID
//   - op: Operation name, e.g. "join_group"
//   - reason: The rejection error
//   - fields: Extra fields identifying the subject
func (l *Logger) Rejected(ctx context.Context, op string, reason error, fields ...zap.Field) {
	all := make([]zap.Field, 0, len(fields)+2)
	all = append(all, zap.String("op", op), zap.String("reason", reason.Error()))
	l.For(ctx).Info("operation rejected", append(all, fields...)...)
}

// Close flushes buffered entries and releases the log file, if any.
func (l *Logger) Close() error {
	syncErr := l.Logger.Sync()
	if l.file == nil {
		// stdout Sync fails with EINVAL on some platforms
		return nil
	}
	if syncErr != nil {
		return syncErr
	}
	return l.file.Close()
}
