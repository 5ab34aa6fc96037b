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

// LogFileName is the name of the rotating log file inside the log directory.
const LogFileName = "logistics-insights.log"

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
// Stdout stays untouched because it carries the MCP protocol.
func Init(verbose bool) error {
	// Load .env from the binary directory so LOGS_FOLDER is available before config.Load.
	exePath, err := os.Executable()
	if err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		base := os.Getenv("DATA_PATH")
		if base == "" && err == nil {
			base = filepath.Dir(exePath)
		}
		logDir = filepath.Join(base, "logs")
	}

	fileWriter, ferr := openLogFile(logDir)
	if ferr != nil {
		return ferr
	}

	Setup(os.Stderr, fileWriter, verbose)
	return nil
}

// Setup installs the global logger writing to console (human readable) and file (JSON lines).
// file may be nil.
func Setup(console *os.File, file io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(console.Fd()) || isatty.IsCygwinTerminal(console.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	var out io.Writer = consoleWriter
	if file != nil {
		out = zerolog.MultiLevelWriter(io.Writer(consoleWriter), file)
	}

	log.Logger = zerolog.New(out).
		With().
		Timestamp().
		Logger()
}

func openLogFile(logDir string) (io.Writer, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	// MkdirAll can succeed on a read-only mount, so probe with a real write.
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}, nil
}
