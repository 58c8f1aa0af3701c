package logger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	fileBufferSize     = 16 * 1024
	logFilePermissions = 0o600
	logDirPermissions  = 0o700
)

// fileWriter is a mutex-guarded buffered writer over an append-only log file.
type fileWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

func openFileWriter(path string) (*fileWriter, error) {
	if dir := filepath.Dir(path); dir != "." && dir != path {
		if err := os.MkdirAll(dir, logDirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return &fileWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, fileBufferSize),
	}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return 0, os.ErrClosed
	}
	return w.writer.Write(p)
}

// Flush pushes buffered bytes to the OS without fsync.
func (w *fileWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	return w.writer.Flush()
}

// Close flushes, syncs and closes the file. It is safe to call twice.
func (w *fileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}

	errs := []error{w.writer.Flush(), w.file.Sync(), w.file.Close()}
	w.file = nil
	return errors.Join(errs...)
}
