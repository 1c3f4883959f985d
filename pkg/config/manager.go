package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/liora-cosmetic/liora/pkg/logger"
)

// Manager holds the active configuration and reloads it on demand.
type Manager struct {
	Service    Service
	current    atomic.Pointer[Config]
	sources    []Source
	callbacks  []func(*Config)
	callbackMu sync.RWMutex
	reloadMu   sync.Mutex
	closeOnce  sync.Once
}

func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{Service: service}
}

// Load loads configuration from sources and keeps them for Reload.
func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()
	m.sources = append([]Source(nil), sources...)
	config, err := m.Service.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	m.apply(config)
	return config, nil
}

func (m *Manager) Get() *Config {
	return m.current.Load()
}

// Reload re-reads every source; the current configuration stays on failure.
func (m *Manager) Reload(ctx context.Context) error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()
	config, err := m.Service.Load(ctx, m.sources...)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	m.apply(config)
	return nil
}

// OnChange registers a callback invoked whenever a load changes the config.
func (m *Manager) OnChange(callback func(*Config)) {
	m.callbackMu.Lock()
	defer m.callbackMu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// Close releases every source.
func (m *Manager) Close(ctx context.Context) error {
	var errs []error
	m.closeOnce.Do(func() {
		m.reloadMu.Lock()
		sources := append([]Source(nil), m.sources...)
		m.reloadMu.Unlock()
		for _, source := range sources {
			if source == nil {
				continue
			}
			if err := source.Close(); err != nil {
				logger.FromContext(ctx).Error("failed to close configuration source", "source", source.Type(), "error", err)
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

func (m *Manager) apply(config *Config) {
	old := m.current.Swap(config)
	if old != nil && reflect.DeepEqual(old, config) {
		return
	}
	m.callbackMu.RLock()
	callbacks := slices.Clone(m.callbacks)
	m.callbackMu.RUnlock()
	for _, callback := range callbacks {
		if callback != nil {
			callback(config)
		}
	}
}
