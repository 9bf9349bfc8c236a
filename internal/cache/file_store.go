package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"hellosleep/internal/model"
)

const lockRetry = 50 * time.Millisecond

// FileStore keeps the whole cache as one JSON object (hash -> entry).
// Each mutation re-reads the file under an exclusive flock so the server and
// the CLI can share one file. A flock is held per process, so mu serializes
// goroutines sharing this FileStore.
type FileStore struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// NewFileStore creates a store at path; the lock file is path + ".lock".
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Load(ctx context.Context) (map[string]model.PatternEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lockShared(ctx); err != nil {
		return nil, err
	}
	defer s.lock.Unlock()
	return s.read()
}

func (s *FileStore) Put(ctx context.Context, entry model.PatternEntry) error {
	return s.update(ctx, func(m map[string]model.PatternEntry) {
		m[entry.Hash] = entry
	})
}

func (s *FileStore) Delete(ctx context.Context, hashes []string) error {
	return s.update(ctx, func(m map[string]model.PatternEntry) {
		for _, h := range hashes {
			delete(m, h)
		}
	})
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) update(ctx context.Context, fn func(map[string]model.PatternEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if _, err := s.lock.TryLockContext(ctx, lockRetry); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	defer s.lock.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	fn(entries)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(s.path, data)
}

func (s *FileStore) lockShared(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if _, err := s.lock.TryRLockContext(ctx, lockRetry); err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	return nil
}

// read expects the lock to be held. A missing file is an empty cache.
func (s *FileStore) read() (map[string]model.PatternEntry, error) {
	entries := make(map[string]model.PatternEntry)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if entries == nil {
		// the file held a JSON null
		entries = make(map[string]model.PatternEntry)
	}
	return entries, nil
}

// atomicWrite replaces path through a temp file in the same directory.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
