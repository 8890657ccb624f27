package internal

import (
	"fmt"
	"sync"

	"github.com/lithammer/shortuuid/v4"
)

// Storage keys shared with the web widget
const (
	IdentityKey = "user_id"
	HistoryKey  = "chat-history"
)

const identityPrefix = "user_"

// NewIdentity generates a fresh anonymous visitor identifier
func NewIdentity() string {
	return identityPrefix + shortuuid.New()
}

// SessionStore owns the visitor identity and the conversation history.
// Construct one per widget mount and share it with the chat controller.
type SessionStore struct {
	kv    KVStore
	newID func() string

	mu       sync.Mutex
	identity string
	history  History
	loaded   bool

	notifyMu    sync.Mutex
	subscribers []func(History)
}

// NewSessionStore creates a store over kv with an empty in-memory history
func NewSessionStore(kv KVStore) *SessionStore {
	return &SessionStore{
		kv:      kv,
		newID:   NewIdentity,
		history: History{},
	}
}

// Open performs the mount-time reads: identity first, then history
func (s *SessionStore) Open() error {
	if _, err := s.GetOrCreateIdentity(); err != nil {
		return err
	}
	s.LoadHistory()
	return nil
}

// GetOrCreateIdentity returns the stored identity, creating and persisting
// one on first use.
func (s *SessionStore) GetOrCreateIdentity() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok, err := s.kv.Get(IdentityKey)
	if err != nil {
		return "", fmt.Errorf("failed to read identity: %w", err)
	}
	if ok && stored != "" {
		s.identity = stored
		return stored, nil
	}

	id := s.newID()
	if err := s.kv.Set(IdentityKey, id); err != nil {
		return "", fmt.Errorf("failed to persist identity: %w", err)
	}
	LogDebug("Assigned new identity %s", id)
	s.identity = id
	return id, nil
}

// ResetIdentity discards the stored identity and assigns a new one.
// History is kept: it is not partitioned by identity.
func (s *SessionStore) ResetIdentity() (string, error) {
	s.mu.Lock()
	err := s.kv.Delete(IdentityKey)
	if err == nil {
		s.identity = ""
	}
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to clear identity: %w", err)
	}
	return s.GetOrCreateIdentity()
}

// LoadHistory reads the persisted history and installs it as the current one.
// Missing or unreadable history yields an empty sequence; failures are logged.
func (s *SessionStore) LoadHistory() History {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = s.readHistory()
	s.loaded = true
	return s.history.Clone()
}

// ensureLoadedLocked reads the persisted history on first use so a store that
// was never opened appends to, rather than replaces, the stored conversation.
func (s *SessionStore) ensureLoadedLocked() {
	if !s.loaded {
		s.history = s.readHistory()
		s.loaded = true
	}
}

func (s *SessionStore) readHistory() History {
	raw, ok, err := s.kv.Get(HistoryKey)
	if err != nil {
		LogError("Failed to read chat history: %v", err)
		return History{}
	}
	if !ok {
		return History{}
	}

	history, err := ParseHistory(HistoryKey, raw)
	if err != nil {
		LogError("Failed to parse chat history: %v", err)
		return History{}
	}
	return history
}

// AppendAndPersist writes history+message in full and makes it the current
// history. The caller's slice is not modified.
func (s *SessionStore) AppendAndPersist(history History, message Message) (History, error) {
	s.mu.Lock()
	next, err := s.persistLocked(history, message)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify()
	return next, nil
}

// Append adds message to the store's current history and persists it.
// Concurrent callers are serialized, so no entry is lost within a process.
func (s *SessionStore) Append(message Message) (History, error) {
	s.mu.Lock()
	s.ensureLoadedLocked()
	next, err := s.persistLocked(s.history, message)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify()
	return next, nil
}

func (s *SessionStore) persistLocked(history History, message Message) (History, error) {
	if err := message.Validate(); err != nil {
		return nil, err
	}

	next := history.Append(message)
	data, err := MarshalHistory(next)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(HistoryKey, data); err != nil {
		return nil, fmt.Errorf("failed to persist history: %w", err)
	}

	s.history = next
	s.loaded = true
	return next.Clone(), nil
}

// Reset clears the persisted history
func (s *SessionStore) Reset() error {
	s.mu.Lock()
	err := s.kv.Delete(HistoryKey)
	if err == nil {
		s.history = History{}
		s.loaded = true
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.notify()
	return nil
}

// Identity returns the identity resolved by GetOrCreateIdentity, or ""
func (s *SessionStore) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// History returns a snapshot of the current history
func (s *SessionStore) History() History {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked()
	return s.history.Clone()
}

// Transcript returns identity and history as one snapshot
func (s *SessionStore) Transcript() *Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked()
	return &Transcript{Identity: s.identity, Messages: s.history.Clone()}
}

// StoredKeys lists every key currently held in the backing store
func (s *SessionStore) StoredKeys() ([]string, error) {
	return s.kv.Keys("")
}

// Subscribe registers fn to receive the current history after every change.
// Notifications are delivered one at a time, newest state each.
func (s *SessionStore) Subscribe(fn func(History)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *SessionStore) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if len(s.subscribers) == 0 {
		return
	}
	snapshot := s.History()
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}
