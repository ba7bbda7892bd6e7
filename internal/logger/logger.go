package logger

import (
	"io"
	"os"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	logrus "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Options controls where and how much we log.
type Options struct {
	File       string // empty means stdout
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Setup initializes Logrus with a rotating file (or stdout) and returns the
// sink so request logs can share it.
func Setup(opts Options) io.Writer {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		// Lumberjack for file rotation
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB, // megabytes
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays, // days
			Compress:   opts.Compress,
		}
	}

	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	return out
}

// GormLogger routes GORM's slow-query and error output through Logrus.
func GormLogger() gormlogger.Interface {
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// RequestLogger writes one structured line per request to out.
func RequestLogger(out io.Writer) gin.HandlerFunc {
	if out == nil {
		out = os.Stdout
	}
	return ginlog.SetLogger(
		ginlog.WithLogger(func(_ *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.Output(out).With().Timestamp().Logger()
		}),
		ginlog.WithSkipPath([]string{"/health"}),
		ginlog.WithUTC(true),
	)
}
