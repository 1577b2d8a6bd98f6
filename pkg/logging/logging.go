// Package logging builds the zap logger: human-readable lines on stderr and a
// rotated JSON log file under the config directory.
package logging

import (
	"io"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogDir  = "logs"
	LogFile = "systasks.log"
)

type Options struct {
	// Dir is the config directory; the log file lives in Dir/logs. Empty disables it.
	Dir     string
	Level   string
	Verbose bool
	Console io.Writer
}

// ParseLevel maps a config string onto a zap level, defaulting to warn.
func ParseLevel(s string) zapcore.Level {
	lvl := zapcore.WarnLevel
	if s == "" {
		return lvl
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}

// Path returns where the rotated log file is written for dir.
func Path(dir string) string {
	return filepath.Join(dir, LogDir, LogFile)
}

// New builds the logger. The file core always records info and above; the
// console follows the configured level, or debug when verbose.
func New(opts Options) *zap.Logger {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.AddSync(opts.Console),
			level,
		))
	}
	if opts.Dir != "" {
		rotator := &lumberjack.Logger{
			Filename:   Path(opts.Dir),
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28,
		}
		fileLevel := zapcore.InfoLevel
		if level < fileLevel {
			fileLevel = level
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			fileLevel,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}
