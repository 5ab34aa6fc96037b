package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit_WritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOGS_FOLDER", dir)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := Init(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %s", zerolog.GlobalLevel())
	}

	log.Info().Str("warehouse", "North").Msg("logging probe")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("Expected log file to exist: %v", err)
	}
	if !strings.Contains(string(data), `"warehouse":"North"`) {
		t.Errorf("Expected structured field in log file, got %s", data)
	}
}

func TestOpenLogFile_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := openLogFile(filepath.Join(file, "logs")); err == nil {
		t.Error("Expected error when the log directory cannot be created")
	}
}
