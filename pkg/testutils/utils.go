package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// RecordingLogger keeps every formatted line so tests can assert on log output
type RecordingLogger struct {
	mu    sync.Mutex
	Lines []string
}

func (l *RecordingLogger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, level+" "+fmt.Sprintf(msg, args...))
}

func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args...) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args...) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args...) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args...) }

// Contains reports whether any recorded line contains substr
func (l *RecordingLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.Lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// String joins the recorded lines, for failure messages
func (l *RecordingLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.Lines, "\n")
}

// WriteFile writes contents to name inside dir and returns the full path
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ArtifactJSON renders a minimal hardhat artifact
func ArtifactJSON(name, abiJSON, bytecode string) string {
	if bytecode == "" {
		bytecode = "0x"
	}
	return fmt.Sprintf(`{"contractName":%q,"abi":%s,"bytecode":%q}`, name, abiJSON, bytecode)
}
