package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger is a file-backed logger with level prefixes. Messages are mirrored
// to stderr so a foreground server stays observable.
type Logger struct {
	file   *os.File
	logger *log.Logger
}

// NewLogger creates a new logger appending to filePath.
func NewLogger(filePath string) (*Logger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &Logger{
		file:   file,
		logger: log.New(io.MultiWriter(file, os.Stderr), "", log.LstdFlags),
	}, nil
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.logger.SetPrefix("INFO: ")
	l.logger.Println(msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.logger.SetPrefix("WARN: ")
	l.logger.Println(msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.logger.SetPrefix("ERROR: ")
	l.logger.Println(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// Close closes the log file
func (l *Logger) Close() {
	l.file.Close()
}

// RotateLog reopens the log file daily so external tooling can move the old
// file aside.
func (l *Logger) RotateLog() {
	for {
		now := time.Now()
		next := now.Add(24 * time.Hour)
		time.Sleep(next.Sub(now))

		l.Close()
		file, err := os.OpenFile(l.file.Name(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			fmt.Printf("failed to rotate log file: %v\n", err)
			return
		}
		l.file = file
		l.logger.SetOutput(io.MultiWriter(file, os.Stderr))
	}
}
