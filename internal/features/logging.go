package features

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log file names inside <data dir>/logs.
const (
	LogFileName      = "gtatools.log"
	DebugLogFileName = "gtatools-debug.log"
	CrashLogFileName = "error.log"
)

// LogDir returns the log directory inside dataDir.
func LogDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// SetupFileLogging configures zerolog to write to a file.
// This is used by TUI mode to avoid collision with the UI.
func SetupFileLogging(dataDir string, debug bool) error {
	// Create logs directory
	logDir := LogDir(dataDir)
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	// Create log file
	logFile := filepath.Join(logDir, LogFileName)
	//nolint:gosec // G304: Path from the data directory
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	// Always write JSON to file
	writers := []io.Writer{file}

	// In debug mode, also write human-readable logs to a separate debug file
	if debug {
		debugFile := filepath.Join(logDir, DebugLogFileName)
		//nolint:gosec // G304: Debug log file path is constructed from the data directory
		debugFileWriter, err := os.OpenFile(debugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open debug log file: %w", err)
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: debugFileWriter, TimeFormat: time.RFC3339, NoColor: true})
	}

	multi := io.MultiWriter(writers...)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
	setLevel(debug)

	log.Info().
		Str("log_file", logFile).
		Bool("debug", debug).
		Msg("File logging initialized")

	return nil
}

// SetupConsoleLogging sends human-readable logs to w. One-shot commands use it.
func SetupConsoleLogging(w io.Writer, debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	setLevel(debug)
}

func setLevel(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// WriteCrashLog appends a panic report to the crash log and returns its path.
func WriteCrashLog(dataDir string, at time.Time, panicValue any, stack []byte) (string, error) {
	logDir := LogDir(dataDir)
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "", fmt.Errorf("create logs directory: %w", err)
	}

	path := filepath.Join(logDir, CrashLogFileName)
	//nolint:gosec // G304: Path from the data directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("open crash log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, "[%s] panic: %v\n%s\n", at.Format(time.RFC3339), panicValue, stack); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}
