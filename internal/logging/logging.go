package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the rotating log file inside the log directory.
const FileName = "sprint-kpis.log"

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
// It exits the process when the log directory cannot be used.
func Init(verbose bool) {
	// Init runs before config.Load, so LOGS_FOLDER may only exist in the binary's .env.
	exePath, err := os.Executable()
	if err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	logger, err := New(verbose, os.Stderr, ResolveDir(exePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Logger = logger
}

// ResolveDir picks the log directory: LOGS_FOLDER, then DATA_PATH/logs, then logs next
// to the binary.
func ResolveDir(exePath string) string {
	if dir := os.Getenv("LOGS_FOLDER"); dir != "" {
		return dir
	}
	if dataPath := os.Getenv("DATA_PATH"); dataPath != "" {
		return filepath.Join(dataPath, "logs")
	}
	if exePath != "" {
		return filepath.Join(filepath.Dir(exePath), "logs")
	}
	return "logs"
}

// New builds a logger writing human-readable lines to console and JSON lines to a
// rotating file in logDir. The global level is set from verbose.
func New(verbose bool, console io.Writer, logDir string) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	// MkdirAll succeeds on read-only mounts that already exist.
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return zerolog.Nop(), fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(console),
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(consoleWriter, fileWriter)

	return zerolog.New(multi).
		With().
		Timestamp().
		Logger(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
