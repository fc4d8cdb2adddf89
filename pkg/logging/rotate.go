package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

// RotatingFileWriter appends to a log file that can be moved aside on demand.
type RotatingFileWriter struct {
	mu   sync.Mutex
	file *os.File
	path string
	now  func() time.Time
}

var _ io.WriteCloser = (*RotatingFileWriter)(nil)

// NewRotatingFileWriter opens path for appending. A non-empty existing file is
// rotated first so every run starts on a fresh file.
func NewRotatingFileWriter(path string) (*RotatingFileWriter, error) {
	w := &RotatingFileWriter{path: path, now: time.Now}

	if stat, err := os.Stat(path); err == nil && stat.Size() > 0 {
		if err := os.Rename(path, w.stampedFilename()); err != nil {
			return nil, fmt.Errorf("initial rotation failed: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	w.file = f
	return w, nil
}

func (w *RotatingFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Write(p)
}

func (w *RotatingFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// Rotate moves the current file aside with a timestamp suffix and starts a
// new one at path. The open handle is only replaced once the new file is
// open, so a failed rotation leaves writes working. A file already moved away
// by someone else is not an error; path is simply recreated.
func (w *RotatingFileWriter) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.Rename(w.path, w.stampedFilename()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	prev := w.file
	w.file = f
	return prev.Close()
}

func (w *RotatingFileWriter) stampedFilename() string {
	return w.path + "." + w.now().Format("20060102-150405")
}

// UntilMidnight is the wait from now until the next local midnight of now's
// location.
func UntilMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

// RotateAtMidnight rotates w at every local midnight until ctx is done.
func RotateAtMidnight(ctx context.Context, w *RotatingFileWriter) {
	timer := time.NewTimer(UntilMidnight(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := w.Rotate(); err != nil {
				slog.Warn("failed to rotate log file", "path", w.path, "err", err)
			}
			timer.Reset(UntilMidnight(time.Now()))
		}
	}
}
