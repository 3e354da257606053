package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
)

// setupTestDir points the package at a temporary log directory and resets
// the global session state.
func setupTestDir(t *testing.T) {
	t.Helper()

	tempDir := t.TempDir()

	origLogDir := logDir
	origInitErr := initErr
	origSessionID := sessionID

	// Consume the init guards so initLogDirectory does not overwrite the
	// test directory.
	initOnce = sync.Once{}
	initOnce.Do(func() {})
	sessionIDOnce = sync.Once{}
	sessionIDOnce.Do(func() {})

	logDir = tempDir
	initErr = nil
	sessionID = "test-session"

	t.Cleanup(func() {
		logDir = origLogDir
		initErr = origInitErr
		sessionID = origSessionID
		initOnce = sync.Once{}
		sessionIDOnce = sync.Once{}
	})
}

func TestNewLogger(t *testing.T) {
	setupTestDir(t)

	logger, err := New("driver", LevelInfo)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.SessionID() == "" {
		t.Error("expected non-empty session ID")
	}
	if logger.LogPath() == "" {
		t.Error("expected non-empty log path")
	}
	if _, err := os.Stat(logger.LogPath()); os.IsNotExist(err) {
		t.Errorf("log file does not exist at %s", logger.LogPath())
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	setupTestDir(t)

	logger, err := New("browser", LevelWarn)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	logger.Debugf("debug message")
	logger.Infof("info message")
	logger.Warnf("warn message")
	logger.Errorf("error message")
	logger.Close()

	data, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)

	for _, absent := range []string{"debug message", "info message"} {
		if strings.Contains(content, absent) {
			t.Errorf("log should not contain %q below threshold", absent)
		}
	}
	for _, present := range []string{"warn message", "error message"} {
		if !strings.Contains(content, present) {
			t.Errorf("log should contain %q", present)
		}
	}
	if !strings.Contains(content, "[browser]") {
		t.Error("log entries should carry the component name")
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity string
		want      Level
	}{
		{"quiet", LevelWarn},
		{"normal", LevelInfo},
		{"verbose", LevelDebug},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%q) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestFallbackLoggerFormatMatchesFileMode(t *testing.T) {
	logger := newFallbackLogger("driver", LevelInfo, errors.New("no home directory"))

	var buf bytes.Buffer
	logger.logger.SetOutput(&buf)
	logger.Infof("hello")

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "[20") {
		t.Errorf("fallback line should start with the formatted timestamp, got %q", line)
	}
	if strings.Count(line, "[driver]") != 1 {
		t.Errorf("fallback line should carry the component exactly once, got %q", line)
	}
	// The formatted timestamp holds two colons; a stdlib date prefix on top
	// of it would add more.
	if strings.Count(line, ":") != 2 {
		t.Errorf("fallback line carries a second timestamp: %q", line)
	}
	if logger.LogPath() != "" {
		t.Errorf("fallback logger should have no log path, got %q", logger.LogPath())
	}
}

func TestLoggerCloseIsIdempotent(t *testing.T) {
	setupTestDir(t)

	logger, err := New("engine", LevelInfo)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("first close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}
