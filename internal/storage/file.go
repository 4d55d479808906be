// Package storage keeps submission records in a JSON list file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/submission"
)

const DefaultPath = "data/submissions.json"

// FileStore appends records to a JSON array stored in a single file. Items
// it cannot decode are kept untouched when the file is rewritten.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{
		path:   path,
		logger: logger.WithFields(log, zap.String("path", path)),
	}
}

func (s *FileStore) Path() string {
	return s.path
}

// Write appends the record and reports whether it was persisted.
func (s *FileStore) Write(record *submission.Record) bool {
	if err := s.Append(record); err != nil {
		s.logger.Error("saving submission", zap.Error(err))
		return false
	}
	return true
}

// Append creates the parent directory when needed, loads the existing list,
// appends the record and writes the whole list back.
func (s *FileStore) Append(record *submission.Record) error {
	if record == nil {
		return errors.New("record is required")
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	items := s.load()
	items = append(items, record)

	if err := s.persist(items); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	s.logger.Debug("submission appended", zap.String("record_id", record.ID), zap.Int("records", len(items)))
	return nil
}

// Records returns the stored records in write order. Items that do not look
// like records are skipped.
func (s *FileStore) Records() ([]*submission.Record, error) {
	items, err := s.read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*submission.Record{}, nil
		}
		return nil, err
	}

	records := make([]*submission.Record, 0, len(items))
	for idx, item := range items {
		var record submission.Record
		if err := mapstructure.Decode(item, &record); err != nil {
			s.logger.Warn("skipping malformed submission", zap.Int("index", idx), zap.Error(err))
			continue
		}
		records = append(records, &record)
	}

	return records, nil
}

// load returns the current list, starting over when the file is absent or
// cannot be parsed.
func (s *FileStore) load() []any {
	items, err := s.read()
	if err == nil {
		return items
	}

	if !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("starting a new submissions list", zap.Error(err))
	}

	return []any{}
}

func (s *FileStore) read() ([]any, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return []any{}, nil
	}

	var items []any
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}

	return items, nil
}

// persist writes the list to a temporary file next to the target and renames
// it into place, so a failed write leaves the previous list intact.
func (s *FileStore) persist(items []any) error {
	file, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := file.Name()

	if err := writeList(file, items); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}

	return nil
}

func writeList(file *os.File, items []any) error {
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		file.Close()
		return err
	}

	if err := file.Chmod(0o644); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
