// Package logging builds the logrus logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing text to stderr at the given level.
func New(level string) (*logrus.Logger, error) {
	return NewWithOutput(level, os.Stderr)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	return log, nil
}

// RotateTo sends log output to a size-rotated file at path. Full-screen
// front ends use it so log lines do not draw over the terminal.
// Close the returned writer when done.
func RotateTo(log *logrus.Logger, path string) io.WriteCloser {
	rotate := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}
	log.SetOutput(rotate)
	return rotate
}

// ParseLevel maps the configured level name to a logrus level.
// Trace and panic are not exposed.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warning", "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	case "fatal":
		return logrus.FatalLevel, nil
	}
	return 0, fmt.Errorf("bad log level %q (want debug, info, warn, error or fatal)", level)
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Leveled adapts a logrus logger to the key/value LeveledLogger interface
// used by go-retryablehttp.
type Leveled struct {
	Log logrus.FieldLogger
}

func (l Leveled) Error(msg string, kv ...interface{}) { l.Log.WithFields(fields(kv)).Error(msg) }
func (l Leveled) Info(msg string, kv ...interface{})  { l.Log.WithFields(fields(kv)).Info(msg) }
func (l Leveled) Debug(msg string, kv ...interface{}) { l.Log.WithFields(fields(kv)).Debug(msg) }
func (l Leveled) Warn(msg string, kv ...interface{})  { l.Log.WithFields(fields(kv)).Warn(msg) }

func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		f["extra"] = kv[len(kv)-1]
	}
	return f
}
