package settings

import (
	"context"
	"sync"
)

// InMemorySettingsRepository implements SettingsRepository using in-memory storage
type InMemorySettingsRepository struct {
	mu      sync.RWMutex
	modules map[string]map[string]string // module -> key -> value
}

// NewInMemorySettingsRepository creates a new in-memory settings repository
func NewInMemorySettingsRepository() *InMemorySettingsRepository {
	return &InMemorySettingsRepository{
		modules: make(map[string]map[string]string),
	}
}

func (r *InMemorySettingsRepository) GetValue(ctx context.Context, module, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.modules[module][key]
	if !ok {
		return "", ErrSettingNotFound
	}
	return value, nil
}

func (r *InMemorySettingsRepository) SetValue(ctx context.Context, module, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.modules[module] == nil {
		r.modules[module] = make(map[string]string)
	}
	r.modules[module][key] = value
	return nil
}

func (r *InMemorySettingsRepository) DeleteValue(ctx context.Context, module, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.modules[module], key)
	return nil
}

func (r *InMemorySettingsRepository) ListModule(ctx context.Context, module string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.modules[module]))
	for k, v := range r.modules[module] {
		result[k] = v
	}
	return result, nil
}
