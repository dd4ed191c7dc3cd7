package logger

import (
	"fmt"
	"log"
	"strings"
)

type BasicLogger struct {
	verbose bool
}

func NewLogger(verbose bool) *BasicLogger {
	return &BasicLogger{verbose: verbose}
}

func (l *BasicLogger) Info(msg string, args ...any) {
	l.print("", msg, args...)
}

func (l *BasicLogger) Warn(msg string, args ...any) {
	l.print("Warning: ", msg, args...)
}

func (l *BasicLogger) Error(msg string, args ...any) {
	l.print("Error: ", msg, args...)
}

func (l *BasicLogger) Debug(msg string, args ...any) {
	if !l.verbose {
		return
	}
	l.print("Debug: ", msg, args...)
}

func (l *BasicLogger) print(prefix string, msg string, args ...any) {
	// format the message once
	formatted := fmt.Sprintf(msg, args...)

	// split into lines
	lines := strings.Split(strings.TrimSuffix(formatted, "\n"), "\n")

	// print the lines with log
	for _, line := range lines {
		log.Printf("%s%s", prefix, line)
	}
}
