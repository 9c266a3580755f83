// Package config provides CLI, environment and file configuration for the
// server.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// PersonasFileConfig is the persona override file structure.
type PersonasFileConfig struct {
	Personas map[string]string `json:"personas" yaml:"personas"`
}

// PersonaWatcher watches the persona override file and pushes reloaded
// prompt templates to subscribers.
type PersonaWatcher struct {
	log         *zap.Logger
	filePath    string
	lastModTime time.Time
	watcher     *fsnotify.Watcher
	stopCh      chan struct{}

	mu        sync.RWMutex
	personas  map[string]string
	callbacks []func(map[string]string)
}

// NewPersonaWatcher creates a watcher for the given override file.
func NewPersonaWatcher(log *zap.Logger, filePath string) (*PersonaWatcher, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat personas file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	return &PersonaWatcher{
		log:         log,
		filePath:    absPath,
		lastModTime: fileInfo.ModTime(),
		watcher:     watcher,
		stopCh:      make(chan struct{}),
	}, nil
}

// AddCallback registers a function to be called with the persona templates
// on load and on every reload.
func (w *PersonaWatcher) AddCallback(callback func(map[string]string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start loads the file and begins watching it for changes.
func (w *PersonaWatcher) Start(ctx context.Context) error {
	if err := w.load(); err != nil {
		return fmt.Errorf("load personas file: %w", err)
	}

	if err := w.watcher.Add(filepath.Dir(w.filePath)); err != nil {
		w.log.Warn("Could not watch personas file, overrides will not reload",
			zap.String("file", w.filePath),
			zap.Error(err),
		)
	} else {
		go w.watchLoop(ctx)
	}

	w.notify()
	return nil
}

func (w *PersonaWatcher) Stop() {
	close(w.stopCh)
	_ = w.watcher.Close()
}

// Personas returns the current persona templates from the file.
func (w *PersonaWatcher) Personas() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.personas
}

func (w *PersonaWatcher) load() error {
	var fileConfig PersonasFileConfig
	if err := ReadConfig(w.filePath, &fileConfig); err != nil {
		return err
	}

	w.mu.Lock()
	w.personas = fileConfig.Personas
	w.mu.Unlock()
	return nil
}

func (w *PersonaWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.filePath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("Personas file watcher error", zap.Error(err))
		}
	}
}

func (w *PersonaWatcher) reload() {
	fileInfo, err := os.Stat(w.filePath)
	if err != nil {
		w.log.Error("Failed to stat personas file",
			zap.String("file", w.filePath),
			zap.Error(err),
		)
		return
	}
	if !fileInfo.ModTime().After(w.lastModTime) {
		return
	}
	w.lastModTime = fileInfo.ModTime()

	if err := w.load(); err != nil {
		w.log.Error("Failed to reload personas file",
			zap.String("file", w.filePath),
			zap.Error(err),
		)
		return
	}

	w.log.Info("Personas file changed, overrides reloaded", zap.String("file", w.filePath))
	w.notify()
}

func (w *PersonaWatcher) notify() {
	w.mu.RLock()
	personas := w.personas
	callbacks := make([]func(map[string]string), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		callback(personas)
	}
}

// ReadConfig reads and parses a config file into the provided struct
func ReadConfig(filePath string, v any) error {
	content, err := os.ReadFile(filePath) // #nosec G304 -- filePath is controlled by configuration
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch ext := filepath.Ext(filePath); ext {
	case ".json":
		if err := json.Unmarshal(content, v); err != nil {
			return fmt.Errorf("unmarshal json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, v); err != nil {
			return fmt.Errorf("unmarshal yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	return nil
}
