package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/suderio/loot-table/internal/engine"
)

// Record is one generated item as stored in the log.
type Record struct {
	ID        string              `json:"id"`
	Table     string              `json:"table"`
	CreatedAt time.Time           `json:"created_at"`
	Seeds     []engine.Seed       `json:"seeds,omitempty"`
	Values    []engine.Snapshot   `json:"values"`
	Warnings  []engine.Diagnostic `json:"warnings,omitempty"`
	Rolls     int                 `json:"rolls"`
	Events    []EventWrapper      `json:"events"`
}

// maxLine bounds a single record; long reroll chains produce large event lists.
const maxLine = 8 << 20

// Store handles append-only storing of generated items as JSONL.
type Store struct {
	mu   sync.Mutex
	file *os.File
}

// NewStore opens or creates the file at path for appending lines
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	return &Store{file: file}, nil
}

// Append marshals a record as one JSONL line.
func (s *Store) Append(rec *Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", rec.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return err
	}
	return s.file.Sync()
}

// Load reads every record in the log, oldest first.
func (s *Store) Load() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reset file pointer to beginning
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var records []Record
	scanner := bufio.NewScanner(s.file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}
