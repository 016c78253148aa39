package file

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/verdict/internal/logger"
)

// Watch reloads prompts whenever a prompt file in the directory changes,
// until ctx is cancelled. It returns once the watcher is running.
//
// The directory is watched rather than the files so that editors which
// save by rename are seen too.
func (s *PromptStore) Watch(ctx context.Context) error {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return fmt.Errorf("watch prompts: %w", s.initErr)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := w.Add(s.promptDir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", s.promptDir, err)
	}

	go s.handleEvents(ctx, w)
	return nil
}

func (s *PromptStore) handleEvents(ctx context.Context, w *fsnotify.Watcher) {
	defer func() {
		if err := w.Close(); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
			logger.Warn("closing prompt watcher: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !isPromptEvent(event) {
				continue
			}
			s.Reload()
			logger.Info("prompt %s changed, reloaded", filepath.Base(event.Name))

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

func isPromptEvent(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".txt") {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
