package runlog

import (
	"fmt"
	"io"
	"os"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Logger appends timestamped events to a run log file. The file is opened
// in append mode for each write and closed again, so log rotation between
// events does not lose lines. An empty path logs to the console only.
type Logger struct {
	path    string
	verbose bool
	echo    io.Writer
}

// New returns a logger appending to path. With verbose set, every event is
// echoed to stdout; alerts echo regardless.
func New(path string, verbose bool) *Logger {
	return NewWithEcho(path, verbose, os.Stdout)
}

// NewWithEcho is New with an explicit echo destination.
func NewWithEcho(path string, verbose bool, echo io.Writer) *Logger {
	return &Logger{path: path, verbose: verbose, echo: echo}
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Event appends a formatted line to the log, echoing it in verbose mode.
func (l *Logger) Event(format string, args ...any) error {
	return l.write(fmt.Sprintf(format, args...), l.verbose)
}

// Alert appends a formatted line to the log and always echoes it.
func (l *Logger) Alert(format string, args ...any) error {
	return l.write(fmt.Sprintf(format, args...), true)
}

func (l *Logger) write(message string, echo bool) error {
	line := "[" + time.Now().UTC().Format(timestampLayout) + "] " + message
	if echo && l.echo != nil {
		fmt.Fprintln(l.echo, line)
	}
	if l.path == "" {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append run log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close run log: %w", err)
	}
	return nil
}
