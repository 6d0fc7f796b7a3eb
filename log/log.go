package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Plugin = zapcore.Core

// NOTE: options given here cannot override the defaults' caller and stacktrace settings.
func NewLogger(plugin zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

func NewStdoutPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// NewFilePlugin writes to a rotating file. lumberjack does not expose Sync,
// so the returned closer must be closed before exit to flush the file.
func NewFilePlugin(
	filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	var writer = DefaultLumberjackLogger()
	writer.Filename = filePath

	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the process logger from a level name such as "INFO". Console
// output goes to stdout, or to stderr when toStderr is set. With a non-empty
// filePath the output is also written to that file.
func New(level string, filePath string, toStderr bool) (*zap.Logger, io.Closer, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	plugin := NewStdoutPlugin(lvl)
	if toStderr {
		plugin = NewStderrPlugin(lvl)
	}
	var closer io.Closer = nopCloser{}
	if filePath != "" {
		var filePlugin Plugin
		filePlugin, closer = NewFilePlugin(filePath, lvl)
		plugin = zapcore.NewTee(plugin, filePlugin)
	}

	return NewLogger(plugin), closer, nil
}
