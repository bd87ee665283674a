// Package log writes diagnostics to a daily file under where.Logs through logrus.
// Nothing is written unless logs.write is enabled.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/where"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Retention is how many daily log files are kept.
const Retention = 7

const dateLayout = "2006-01-02"

// Fields are attached to an entry with WithFields.
type Fields = logrus.Fields

var (
	enabled bool
	logger  = newDiscard()
)

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// Setup opens today's log file and applies the configured format and level.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		logger = newDiscard()
		return nil
	}

	dir := where.Logs()
	path := filepath.Join(dir, time.Now().Format(dateLayout)+".log")

	f, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	logger = l
	logger.WithField("version", constant.Version).Info("logging started")

	if err := prune(dir, Retention); err != nil {
		logger.Warnf("pruning old logs: %v", err)
	}
	return nil
}

// prune removes all but the newest keep dated log files in dir.
func prune(dir string, keep int) error {
	fs := filesystem.API()
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}

	logs := lo.FilterMap(entries, func(e os.FileInfo, _ int) (string, bool) {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".log") {
			return "", false
		}
		_, err := time.Parse(dateLayout, strings.TrimSuffix(name, ".log"))
		return name, err == nil
	})

	if len(logs) <= keep {
		return nil
	}

	// dated names sort chronologically
	sort.Strings(logs)
	for _, name := range logs[:len(logs)-keep] {
		if err := fs.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// Enabled reports whether logs are being written.
func Enabled() bool {
	return enabled
}

func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

func Warn(args ...any) {
	logger.Warn(args...)
}

func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}
