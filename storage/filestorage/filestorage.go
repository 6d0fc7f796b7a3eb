package filestorage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mylucky2d3d/crawler/storage"
	"go.uber.org/zap"
)

var fileNames = map[storage.Dataset]string{
	storage.Daily:  "lottery-data.json",
	storage.Weekly: "weekly-data.json",
	storage.ThreeD: "3d-data.json",
}

// FileStorage keeps one JSON file per dataset. A write goes to a temporary
// file in the same directory which is then renamed over the target, so a
// reader sees either the old or the new document.
type FileStorage struct {
	options
	locks map[storage.Dataset]*sync.Mutex
}

func New(opts ...Option) (*FileStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.dir == "" {
		return nil, errors.New("data directory can not be empty")
	}

	s := &FileStorage{options: options, locks: make(map[storage.Dataset]*sync.Mutex, len(fileNames))}
	for d := range fileNames {
		s.locks[d] = &sync.Mutex{}
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStorage) init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

func (s *FileStorage) Path(d storage.Dataset) (string, error) {
	name, ok := fileNames[d]
	if !ok {
		return "", fmt.Errorf("%w: %q", storage.ErrUnknownDataset, d)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *FileStorage) Write(ctx context.Context, d storage.Dataset, doc storage.Document) error {
	path, err := s.Path(d)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := encode(doc)
	if err != nil {
		return err
	}

	mu := s.locks[d]
	mu.Lock()
	defer mu.Unlock()

	if err := s.init(); err != nil {
		return err
	}
	if err := writeAtomic(path, body); err != nil {
		return fmt.Errorf("write %s: %w", d, err)
	}
	s.logger.Debug("document written", zap.String("dataset", string(d)), zap.String("path", path), zap.Int("bytes", len(body)))
	return nil
}

func (s *FileStorage) Read(ctx context.Context, d storage.Dataset) (storage.Document, error) {
	path, err := s.Path(d)
	if err != nil {
		return storage.Document{}, err
	}
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}

	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return storage.Empty(d), nil
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("read %s: %w", d, err)
	}

	var doc storage.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return storage.Document{}, fmt.Errorf("decode %s: %w", d, err)
	}
	return doc, nil
}

func encode(doc storage.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, body []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(body); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
