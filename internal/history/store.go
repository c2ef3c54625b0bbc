// Package history persists completed exchanges as an append-only,
// idempotent conversation log.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arnavsh/safety-copilot/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the single source of truth for which exchanges have been
// recorded. The full list lives in memory; every append rewrites the
// backing file atomically. The committed-id set and the list are mutated
// together, under one lock, so they cannot diverge.
type Store struct {
	path   string
	logger *zap.Logger

	mu        sync.Mutex
	messages  []types.ConversationMessage
	committed map[string]struct{}
}

// DefaultPath returns the conversation log location under the user's
// config directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".safety-copilot", "history.json"), nil
}

// Open loads the store from path, creating an empty store if the file
// does not exist. Legacy records without an id are healed with a
// generated one so de-duplication works across restarts.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		path:      path,
		logger:    logger,
		committed: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var messages []types.ConversationMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}

	healed := 0
	for i := range messages {
		if messages[i].ID == "" {
			messages[i].ID = uuid.NewString()
			healed++
		}
		s.committed[messages[i].ID] = struct{}{}
	}
	s.messages = messages

	if healed > 0 {
		logger.Info("assigned ids to legacy history records", zap.Int("count", healed))
		if err := s.persistLocked(); err != nil {
			// Healing is best effort; the ids hold for this process.
			logger.Warn("could not rewrite healed history", zap.Error(err))
		}
	}
	return s, nil
}

// Append records one exchange. A message whose id was already committed
// is silently dropped, so replaying a close transition is harmless.
func (s *Store) Append(msg types.ConversationMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, done := s.committed[msg.ID]; done {
		return nil
	}
	s.messages = append(s.messages, msg)
	s.committed[msg.ID] = struct{}{}

	if err := s.persistLocked(); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// Committed reports whether an exchange id has already been recorded.
func (s *Store) Committed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, done := s.committed[id]
	return done
}

// Messages returns a copy of the log in append order.
func (s *Store) Messages() []types.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ConversationMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Get returns the exchange with the given id.
func (s *Store) Get(id string) (types.ConversationMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return types.ConversationMessage{}, false
}

// Len returns the number of recorded exchanges.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Clear empties the log, the committed-id set, and the backing file.
// A previously used id may be appended again afterwards.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.committed = make(map[string]struct{})
	if err := s.persistLocked(); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// persistLocked rewrites the backing file via temp-file rename so a crash
// mid-write leaves the previous log intact.
func (s *Store) persistLocked() error {
	records := s.messages
	if records == nil {
		records = []types.ConversationMessage{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
