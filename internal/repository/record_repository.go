package repository

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// RecordStore is the durable, append-only sink for settled parking
// records.  One line is written per completed transaction and flushed
// immediately, so a crash loses at most the line currently in flight.
// The file is opened in append mode and records survive process
// restarts; nothing ever rewrites it.
type RecordStore struct {
	mu     sync.Mutex
	path   string
	f      *os.File
	w      *bufio.Writer
	closed bool
}

// OpenRecordStore opens (creating if needed) the record file for
// appending.
func OpenRecordStore(path string) (*RecordStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	return &RecordStore{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one record line followed by a newline and flushes it to
// the operating system before returning.
func (s *RecordStore) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if _, err := s.w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush record: %w", err)
	}
	return nil
}

// Recent returns up to n record lines from the end of the file, oldest
// first.  It reads through a separate handle so appends are unaffected.
func (s *RecordStore) Recent(n int) ([]string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	path := s.path
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// Close flushes and closes the underlying file.  It is safe to call
// more than once.
func (s *RecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.w.Flush(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("flush on close: %w", err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close record file: %w", err)
	}
	return nil
}
