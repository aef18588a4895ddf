// Package logger builds the append-only error log.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Separator ends every log entry.
const Separator = "------------------------------"

type Options struct {
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
	// Writer replaces the rotating file when set.
	Writer io.Writer
}

type Option func(*Options)

func WithPath(path string) Option { return func(o *Options) { o.Path = path } }

func WithLevel(level string) Option { return func(o *Options) { o.Level = level } }

func WithRotation(maxSizeMB, maxBackups int, compress bool) Option {
	return func(o *Options) {
		o.MaxSizeMB = maxSizeMB
		o.MaxBackups = maxBackups
		o.Compress = compress
	}
}

func WithWriter(w io.Writer) Option { return func(o *Options) { o.Writer = w } }

// New returns a logger appending to the error log. Failures to write the log
// are discarded and never reach the caller. An unknown level falls back to
// error and is reported alongside the usable logger.
func New(opts ...Option) (*zap.Logger, error) {
	options := &Options{
		Path:       "errors.log",
		Level:      "error",
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
	for _, o := range opts {
		o(options)
	}

	level, err := zapcore.ParseLevel(options.Level)
	if err != nil {
		level = zapcore.ErrorLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       "\n" + Separator + "\n",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	}

	var out io.Writer = options.Writer
	if out == nil {
		out = &lumberjack.Logger{
			Filename:   options.Path,
			MaxSize:    options.MaxSizeMB,
			MaxBackups: options.MaxBackups,
			Compress:   options.Compress,
		}
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(out), level)
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.AddSync(io.Discard)),
	), err
}

// LogError records a failed operation with its error kind.
func LogError(log *zap.Logger, kind, op string, err error) {
	if err == nil {
		return
	}
	log.Error(op, zap.String("kind", kind), zap.Error(err))
}
