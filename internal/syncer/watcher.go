package syncer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of file events into one resync.
const watchDebounce = 2 * time.Second

// Watch observes the corpus directory and invokes onChange after file
// activity settles. The corpus layout is flat, so only the root is
// watched and only .md events are considered. Runs until ctx is
// cancelled.
func Watch(ctx context.Context, dataDir string, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", dataDir))

	var debounce *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(watchDebounce)
			fire = debounce.C
		} else {
			debounce.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Info("watcher: corpus changed, resyncing")
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				logger.Debug("watcher: event",
					slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
