package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const settingsFileName = "settings.json"

// FileSettingsRepository implements SettingsRepository using a JSON file
type FileSettingsRepository struct {
	dataDir string
	modules map[string]map[string]string
	mutex   sync.RWMutex
}

// settingsData represents the structure of data stored in the JSON file
type settingsData struct {
	Modules map[string]map[string]string `json:"modules"`
}

// NewFileSettingsRepository creates a new file-based settings repository
func NewFileSettingsRepository(dataDir string) (*FileSettingsRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileSettingsRepository{
		dataDir: dataDir,
		modules: make(map[string]map[string]string),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

func (r *FileSettingsRepository) GetValue(ctx context.Context, module, key string) (string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	value, ok := r.modules[module][key]
	if !ok {
		return "", ErrSettingNotFound
	}
	return value, nil
}

func (r *FileSettingsRepository) SetValue(ctx context.Context, module, key, value string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	next := r.cloneModules()
	if next[module] == nil {
		next[module] = make(map[string]string)
	}
	next[module][key] = value
	if err := r.save(next); err != nil {
		return err
	}
	r.modules = next
	return nil
}

func (r *FileSettingsRepository) DeleteValue(ctx context.Context, module, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.modules[module][key]; !ok {
		return nil
	}
	next := r.cloneModules()
	delete(next[module], key)
	if len(next[module]) == 0 {
		delete(next, module)
	}
	if err := r.save(next); err != nil {
		return err
	}
	r.modules = next
	return nil
}

func (r *FileSettingsRepository) ListModule(ctx context.Context, module string) (map[string]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]string, len(r.modules[module]))
	for k, v := range r.modules[module] {
		result[k] = v
	}
	return result, nil
}

// load reads settings from file
func (r *FileSettingsRepository) load() error {
	filePath := filepath.Join(r.dataDir, settingsFileName)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var sd settingsData
	if err := json.Unmarshal(data, &sd); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if sd.Modules != nil {
		r.modules = sd.Modules
	}
	return nil
}

// cloneModules copies the current state; callers hold the lock
func (r *FileSettingsRepository) cloneModules() map[string]map[string]string {
	modules := make(map[string]map[string]string, len(r.modules))
	for name, values := range r.modules {
		copied := make(map[string]string, len(values))
		for k, v := range values {
			copied[k] = v
		}
		modules[name] = copied
	}
	return modules
}

// save writes modules to file atomically; callers hold the write lock
func (r *FileSettingsRepository) save(modules map[string]map[string]string) error {
	jsonData, err := json.MarshalIndent(settingsData{Modules: modules}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, settingsFileName+".tmp")
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(r.dataDir, settingsFileName)
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
