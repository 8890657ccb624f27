package internal

import (
	"database/sql"
	"sort"
	"strings"
	"sync"
)

// KVStore is the durable origin-scoped key/value storage the widget persists into
type KVStore interface {
	// Get returns the stored value; ok is false when the key is absent
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	// Keys lists stored keys with the given prefix, sorted
	Keys(prefix string) ([]string, error)
}

// Storage is a KVStore backed by the widgetStorage SQLite table
type Storage struct {
	db   *sql.DB
	path string
}

// NewStorage creates a new Storage instance
func NewStorage(db *sql.DB, path string) *Storage {
	return &Storage{db: db, path: path}
}

// OpenStorage opens the database at path and wraps it as a KVStore
func OpenStorage(path string) (*Storage, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return NewStorage(db, path), nil
}

// Path returns the database location
func (s *Storage) Path() string {
	return s.path
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Get(key string) (string, bool, error) {
	value, ok, err := GetStorageValue(s.db, key)
	if err != nil {
		return "", false, &StorageError{Path: s.path, Op: "get", Err: err}
	}
	return value, ok, nil
}

func (s *Storage) Set(key, value string) error {
	if err := SetStorageValue(s.db, key, value); err != nil {
		return &StorageError{Path: s.path, Op: "set", Err: err}
	}
	return nil
}

func (s *Storage) Delete(key string) error {
	if err := DeleteStorageValue(s.db, key); err != nil {
		return &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

func (s *Storage) Keys(prefix string) ([]string, error) {
	pairs, err := QueryStorageKV(s.db, prefix+"%")
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "get", Err: err}
	}
	keys := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		// "_" and "%" in the prefix are LIKE wildcards; re-check literally.
		if strings.HasPrefix(pair.Key, prefix) {
			keys = append(keys, pair.Key)
		}
	}
	return keys, nil
}

// MemoryStorage is an in-process KVStore
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryStorage creates an empty in-memory store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStorage) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
