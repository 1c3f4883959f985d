package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/liora-cosmetic/liora/pkg/logger"
)

const lockRetryDelay = 50 * time.Millisecond

// ErrNoSession is returned when nobody is logged in. It matches
// api.ErrUnauthorized.
var ErrNoSession = fmt.Errorf("no saved session: %w", api.ErrUnauthorized)

// Session is the persisted login state
type Session struct {
	AccessToken string    `json:"access_token"`
	User        api.User  `json:"liora_user"`
	SavedAt     time.Time `json:"saved_at"`
}

// Store persists the session file. Access is serialized across processes
// with an advisory lock next to the file.
type Store struct {
	path string
	lock *flock.Flock
}

func NewStore(path string) *Store {
	path = config.ExpandHome(path)
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(ctx context.Context) (*Session, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	if _, err := s.lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, fmt.Errorf("failed to lock session file: %w", err)
	}
	defer s.unlock(ctx)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	if session.AccessToken == "" {
		return nil, ErrNoSession
	}
	return &session, nil
}

// Save replaces the session atomically.
func (s *Store) Save(ctx context.Context, session *Session) error {
	if session == nil || session.AccessToken == "" {
		return fmt.Errorf("session requires an access token")
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	if _, err := s.lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("failed to lock session file: %w", err)
	}
	defer s.unlock(ctx)
	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now()
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	logger.FromContext(ctx).Debug("session saved", "path", s.path, "user", session.User.Email)
	return nil
}

// Clear removes the session; clearing an absent session is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	if _, err := s.lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("failed to lock session file: %w", err)
	}
	defer s.unlock(ctx)
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	return nil
}

func (s *Store) unlock(ctx context.Context) {
	if err := s.lock.Unlock(); err != nil {
		logger.FromContext(ctx).Warn("failed to unlock session file", "error", err)
	}
}

// ResolveToken prefers a configured token over the stored session.
func ResolveToken(ctx context.Context, cfg *config.Config, store *Store) (string, error) {
	if token := cfg.API.Token.Value(); token != "" {
		return token, nil
	}
	session, err := store.Load(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}
