// Package audit keeps an append-only journal of applied mutations.
package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"go.uber.org/zap"
)

// Entry records one successful mutation.
type Entry struct {
	Op        string    `json:"op"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder is what services write to.
type Recorder interface {
	Record(entry Entry) error
}

// Journal is a JSON-lines file, synced after every entry.
type Journal struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// Open creates the file and its directory when missing and appends to it.
func Open(filePath string) (*Journal, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Journal{
		filePath: filePath,
		file:     file,
	}, nil
}

// Record appends entry and syncs it to disk. A zero timestamp is set to now.
func (j *Journal) Record(entry Entry) error {
	start := time.Now()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = start.UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Write(append(data, '\n')); err != nil {
		logger.Log.Error("Audit: failed to write entry",
			zap.String("op", entry.Op),
			zap.String("target_id", entry.TargetID),
			zap.Error(err),
		)
		return err
	}

	if err := j.file.Sync(); err != nil {
		logger.Log.Error("Audit: failed to sync to disk",
			zap.String("op", entry.Op),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Debug("Audit: entry written",
		zap.String("op", entry.Op),
		zap.String("target_id", entry.TargetID),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// ReadAll returns every entry in write order. Lines that do not parse are skipped.
func (j *Journal) ReadAll() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Discard drops every entry.
type Discard struct{}

func (Discard) Record(Entry) error { return nil }
