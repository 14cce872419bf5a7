// Package keymap holds the presentation layer's keybindings. The engine
// never interprets them; it only loads, live-reloads, and serves them so the
// desktop shell has a single source of truth.
package keymap

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Bindings maps UI actions to key chords.
type Bindings struct {
	SwitchMenu            string `yaml:"switch_menu" json:"switch_menu"`
	SubmitSnippet         string `yaml:"submit_snippet" json:"submit_snippet"`
	CurrentDocumentPicker string `yaml:"current_document_picker" json:"current_document_picker"`
	MarkedDocumentPicker  string `yaml:"marked_document_picker" json:"marked_document_picker"`
	DeleteDocumentPicker  string `yaml:"delete_document_picker" json:"delete_document_picker"`
	DeleteCurrentDocument string `yaml:"delete_current_document" json:"delete_current_document"`
	MoveSelectedSnippet   string `yaml:"move_selected_snippet" json:"move_selected_snippet"`
	DeleteSelectedSnippet string `yaml:"delete_selected_snippet" json:"delete_selected_snippet"`
	UpdateSelectedSnippet string `yaml:"update_selected_snippet" json:"update_selected_snippet"`
}

// Defaults returns the stock keybindings.
func Defaults() Bindings {
	return Bindings{
		SwitchMenu:            "ctrl+m",
		SubmitSnippet:         "ctrl+enter",
		CurrentDocumentPicker: "ctrl+e",
		MarkedDocumentPicker:  "ctrl+b",
		DeleteDocumentPicker:  "ctrl+shift+d",
		DeleteCurrentDocument: "ctrl+d",
		MoveSelectedSnippet:   "ctrl+shift+m",
		DeleteSelectedSnippet: "ctrl+x",
		UpdateSelectedSnippet: "ctrl+u",
	}
}

// Store serves the current bindings and reloads them when the config file
// changes on disk.
type Store struct {
	path string

	mu sync.RWMutex
	b  Bindings
}

// NewStore creates a Store serving initial bindings. path is the config file
// watched for reloads; empty disables watching.
func NewStore(path string, initial Bindings) *Store {
	return &Store{path: path, b: initial}
}

// Bindings returns the current keybindings.
func (s *Store) Bindings() Bindings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.b
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var cfg struct {
		Keybindings Bindings `yaml:"keybindings"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	s.mu.Lock()
	s.b = cfg.Keybindings
	s.mu.Unlock()
	return nil
}

// Watch reloads the bindings whenever the config file is rewritten, until
// ctx is cancelled. Editors often replace files via rename, so the parent
// directory is watched rather than the file itself.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	logger.Info("keymap: watching config", slog.String("path", s.path))

	// Debounce bursts of events from editors that write in several steps.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time
	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("keymap: watcher stopped")
			return nil

		case <-reloadCh:
			if err := s.reload(); err != nil {
				logger.Warn("keymap: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("keymap: reloaded", slog.String("path", s.path))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != s.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("keymap: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
