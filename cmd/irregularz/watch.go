package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/taigrr/irregularz/pkg/logging"
	"github.com/taigrr/irregularz/pkg/models"
)

// watchModel reloads the configured model whenever its file is written and
// hands it to the frame loop. It watches the directory so that editors which
// replace the file on save are noticed too.
func (v *viewer) watchModel(ctx context.Context) error {
	if v.leaf == nil || v.cfg.Model == "" {
		return nil
	}
	path := filepath.Clean(v.cfg.Model)
	log := logging.Logger()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			m, err := models.Load(path)
			if err != nil {
				log.Warn("reload failed", "path", path, "err", err)
				continue
			}
			// Keep only the newest model.
			select {
			case <-v.reload:
			default:
			}
			v.reload <- m

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		}
	}
}
