package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Warn(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string { return levelNames[l] }

// ParseLevel accepts debug, info, warn and error in any case
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type jsonLogger struct {
	service  string
	hostname string
	min      Level
	out      io.Writer
	mu       sync.Mutex
}

// New logs to stdout, dropping entries below min
func New(service string, min Level) Logger {
	return NewWithLevel(service, os.Stdout, min)
}

// NewWithWriter writes every level to out
func NewWithWriter(service string, out io.Writer) Logger {
	return NewWithLevel(service, out, LevelDebug)
}

func NewWithLevel(service string, out io.Writer, min Level) Logger {
	hostname, _ := os.Hostname()
	return &jsonLogger{
		service:  service,
		hostname: hostname,
		min:      min,
		out:      out,
	}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(LevelInfo, action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(LevelDebug, action, message, requestID, details, nil)
}

func (l *jsonLogger) Warn(action, message, requestID string, details map[string]interface{}) {
	l.log(LevelWarn, action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(LevelError, action, message, requestID, details, err)
}

func (l *jsonLogger) log(level Level, action, message, requestID string, details map[string]interface{}, err error) {
	if level < l.min {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Service:   l.service,
		Hostname:  l.hostname,
		RequestID: requestID,
		Action:    action,
		Message:   message,
		Details:   details,
	}
	if err != nil {
		entry.Error = &ErrorInfo{Msg: err.Error()}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	json.NewEncoder(l.out).Encode(entry)
}
