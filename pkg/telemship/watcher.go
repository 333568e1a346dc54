package telemship

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/telemship/pkg/log"
)

// debounceDelay coalesces a burst of spool writes into a single trigger.
const debounceDelay = 100 * time.Millisecond

// spoolWatcher triggers sending when a new batch file lands in the spool
// directory, so queued telemetry goes out without waiting for the next
// periodic trigger.
type spoolWatcher struct {
	dir     string
	trigger func()
	logger  log.Logger
}

func newSpoolWatcher(dir string, trigger func(), logger log.Logger) *spoolWatcher {
	return &spoolWatcher{
		dir:     dir,
		trigger: trigger,
		logger:  logger,
	}
}

// Run watches the spool directory until the context is canceled.
func (w *spoolWatcher) Run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("could not create spool watcher, relying on periodic trigger", log.Err(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		w.logger.Warn("could not watch spool directory, relying on periodic trigger",
			log.String("dir", w.dir),
			log.Err(err),
		)
		return
	}

	// The trigger only ever fires from this goroutine, so a Run that has
	// returned can never trigger again.
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		var pending <-chan time.Time
		if debounce != nil {
			pending = debounce.C
		}

		select {
		case <-ctx.Done():
			return

		case <-pending:
			debounce = nil
			w.trigger()

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if filepath.Ext(event.Name) != ".batch" {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Debug("spool watcher error", log.Err(err))
		}
	}
}
