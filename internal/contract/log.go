package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// logger is the process-wide logger. It writes to stderr so stdout stays clean for reports.
var logger = newLogger()

func newLogger() *log.Logger {
	l := log.New(os.Stderr)
	l.SetTimeFormat("")
	l.SetLevel(log.InfoLevel)

	styles := log.DefaultStyles()
	styles.Keys["path"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["ref"] = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	l.SetStyles(styles)
	return l
}

// Logger returns the shared logger.
func Logger() *log.Logger {
	return logger
}

// SetLogLevel changes the level of the shared logger.
func SetLogLevel(level string) error {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

func parseLogLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error, fatal", level)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}

// LogWarn logs a warning message with its cause.
func LogWarn(msg string, err error, keyvals ...any) {
	logger.Warn(msg, append(keyvals, "err", err)...)
}

// LogDebug logs a debug message.
func LogDebug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}
