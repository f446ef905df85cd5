package monitoring

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logf is the package-level diagnostic logger. It defaults to a zap sugared
// logger but may be replaced by SetLogger. Tests or production code can
// redirect or mute it.
var Logf func(format string, v ...interface{}) = defaultLogger().Infof

// Debugf carries the per-item progress lines. It is muted until a verbose
// logger is installed with UseZap or replaced by SetDebugLogger.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

func defaultLogger() *zap.SugaredLogger {
	l, err := NewLogger(false)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebugLogger replaces the debug logger. Passing nil mutes it.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Debugf = func(string, ...interface{}) {}
		return
	}
	Debugf = f
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return ec
}

func level(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// NewLogger builds the console logger used by the command line tools.
// Verbose lowers the level to debug.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level(verbose))
	cfg.DisableStacktrace = true
	cfg.EncoderConfig = encoderConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// NewConsoleLogger is NewLogger writing to w instead of stderr.
func NewConsoleLogger(w io.Writer, verbose bool) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		level(verbose),
	)
	return zap.New(core)
}

// UseZap points Logf at l's info level and Debugf at its debug level. A nil
// logger mutes both.
func UseZap(l *zap.Logger) {
	if l == nil {
		SetLogger(nil)
		SetDebugLogger(nil)
		return
	}
	s := l.Sugar()
	SetLogger(s.Infof)
	if l.Core().Enabled(zapcore.DebugLevel) {
		SetDebugLogger(s.Debugf)
	} else {
		SetDebugLogger(nil)
	}
}
