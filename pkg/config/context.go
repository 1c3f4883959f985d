package config

import (
	"context"
	"sync"

	"github.com/liora-cosmetic/liora/pkg/logger"
)

type ContextKey string

const (
	// ManagerCtxKey is the context key used to store the *Manager instance
	ManagerCtxKey ContextKey = "config_manager"
)

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

func ContextWithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ManagerCtxKey, m)
}

// ManagerFromContext returns the manager stored in ctx, or a lazily built
// default manager loaded from defaults and the environment.
func ManagerFromContext(ctx context.Context) *Manager {
	if ctx != nil {
		if m, ok := ctx.Value(ManagerCtxKey).(*Manager); ok && m != nil {
			return m
		}
	}
	return getDefaultManager(ctx)
}

// FromContext returns the active configuration for ctx.
func FromContext(ctx context.Context) *Config {
	if cfg := ManagerFromContext(ctx).Get(); cfg != nil {
		return cfg
	}
	return Default()
}

func getDefaultManager(ctx context.Context) *Manager {
	defaultManagerOnce.Do(func() {
		m := NewManager(NewService())
		if _, err := m.Load(ctx, NewDefaultProvider(), NewEnvProvider()); err != nil {
			logger.FromContext(ctx).Warn("failed to load default configuration, using built-in defaults", "error", err)
		}
		defaultManager = m
	})
	return defaultManager
}

// defaultProvider is an empty layer that documents the defaults in a source list
type defaultProvider struct{}

func NewDefaultProvider() Source {
	return defaultProvider{}
}

func (defaultProvider) Load() (map[string]any, error) {
	return nil, nil
}

func (defaultProvider) Type() SourceType {
	return SourceDefault
}

func (defaultProvider) Close() error {
	return nil
}
