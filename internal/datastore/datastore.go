// Package datastore is a small JSON-backed key-value store used for
// per-guild settings. Writes land in memory immediately; a background loop
// flushes to disk with an atomic temp-file rename, skipping saves when
// nothing changed.
package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultAutoSaveInterval = 10 * time.Second

type DataStore struct {
	mu           sync.RWMutex
	data         map[string]any
	file         string
	lastChecksum string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    zerolog.Logger

	closeMu sync.Mutex
	closed  bool
}

func New(filePath string, log zerolog.Logger) (*DataStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ds := &DataStore{
		data:   make(map[string]any),
		file:   filePath,
		ctx:    ctx,
		cancel: cancel,
		log:    log.With().Str("component", "datastore").Logger(),
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := ds.writeFileAtomic([]byte("{}")); err != nil {
			cancel()
			return nil, fmt.Errorf("create empty store: %w", err)
		}
	} else if err == nil {
		if err := ds.load(); err != nil {
			cancel()
			return nil, fmt.Errorf("load store: %w", err)
		}
	} else {
		cancel()
		return nil, fmt.Errorf("stat store file: %w", err)
	}

	ds.wg.Add(1)
	go ds.autoSave()
	return ds, nil
}

// Add stores a value under key.
func (ds *DataStore) Add(key string, value any) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.data[key] = value
}

// Get retrieves a value by key.
func (ds *DataStore) Get(key string) (any, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	value, exists := ds.data[key]
	return value, exists
}

// Delete removes a key.
func (ds *DataStore) Delete(key string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.data, key)
}

// Close stops the autosave loop and flushes one final time.
func (ds *DataStore) Close() error {
	ds.closeMu.Lock()
	if ds.closed {
		ds.closeMu.Unlock()
		return nil
	}
	ds.closed = true
	ds.closeMu.Unlock()

	ds.cancel()
	ds.wg.Wait()
	return ds.save()
}

func (ds *DataStore) autoSave() {
	defer ds.wg.Done()
	ticker := time.NewTicker(defaultAutoSaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ds.ctx.Done():
			return
		case <-ticker.C:
			if err := ds.save(); err != nil {
				ds.log.Error().Err(err).Msg("autosave failed")
			}
		}
	}
}

func (ds *DataStore) save() error {
	ds.mu.RLock()
	payload, err := json.MarshalIndent(ds.data, "", "  ")
	ds.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	checksum := checksumOf(payload)
	ds.mu.Lock()
	unchanged := checksum == ds.lastChecksum
	if !unchanged {
		ds.lastChecksum = checksum
	}
	ds.mu.Unlock()
	if unchanged {
		return nil
	}

	return ds.writeFileAtomic(payload)
}

func (ds *DataStore) load() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	raw, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("read store file: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("invalid store JSON: %w", err)
	}

	ds.data = data
	ds.lastChecksum = checksumOf(raw)
	return nil
}

// writeFileAtomic writes to a temp file, syncs and renames over the target.
func (ds *DataStore) writeFileAtomic(payload []byte) error {
	tmp := ds.file + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	f.Close()

	if err := os.Rename(tmp, ds.file); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func checksumOf(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
