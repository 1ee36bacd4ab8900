// Package watch monitors a content directory for document file changes and
// triggers re-analysis. Events are debounced so that a burst of writes (a
// re-extraction run touching dozens of files) produces one refresh.
package watch

import (
	"fmt"
	"time"

	"gopkg.in/fsnotify.v1"
)

// DefaultDebounce is the quiet period after the last event before the
// change callback fires.
const DefaultDebounce = 500 * time.Millisecond

// Event describes a content directory change delivered to the callback.
type Event struct {
	// Paths changed since the last callback, in event order (duplicates
	// removed).
	Paths []string

	// Removed paths among them, for cache invalidation.
	Removed []string
}

// ContentWatcher watches a content directory for *.json changes.
type ContentWatcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(Event)
	onError  func(error)
}

// NewContentWatcher creates a watcher for dir. The onChange callback runs on
// the watcher's goroutine after each debounced batch of events.
func NewContentWatcher(dir string, onChange func(Event)) *ContentWatcher {
	return &ContentWatcher{
		dir:      dir,
		debounce: DefaultDebounce,
		onChange: onChange,
	}
}

// SetDebounce overrides the debounce interval. Must be called before Start.
func (contentWatcher *ContentWatcher) SetDebounce(debounce time.Duration) {
	contentWatcher.debounce = debounce
}

// SetOnError sets a callback for watcher errors. Errors do not stop the
// watch loop.
func (contentWatcher *ContentWatcher) SetOnError(onError func(error)) {
	contentWatcher.onError = onError
}

// Start begins watching the content directory.
func (contentWatcher *ContentWatcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	contentWatcher.watcher = watcher
	contentWatcher.stopChan = make(chan struct{})

	go contentWatcher.watchLoop()

	if err := watcher.Add(contentWatcher.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", contentWatcher.dir, err)
	}
	return nil
}

// Stop stops watching. Safe to call once after Start.
func (contentWatcher *ContentWatcher) Stop() {
	if contentWatcher.stopChan != nil {
		close(contentWatcher.stopChan)
	}
	if contentWatcher.watcher != nil {
		contentWatcher.watcher.Close()
	}
}

// watchLoop collects events and flushes them after the debounce interval.
func (contentWatcher *ContentWatcher) watchLoop() {
	var (
		pending      Event
		pendingSeen  = make(map[string]bool)
		flushTimer   *time.Timer
		flushChannel <-chan time.Time
	)

	flush := func() {
		if len(pending.Paths) == 0 {
			return
		}
		if contentWatcher.onChange != nil {
			contentWatcher.onChange(pending)
		}
		pending = Event{}
		pendingSeen = make(map[string]bool)
	}

	for {
		select {
		case <-contentWatcher.stopChan:
			if flushTimer != nil {
				flushTimer.Stop()
			}
			return

		case event, ok := <-contentWatcher.watcher.Events:
			if !ok {
				flush()
				return
			}
			if !isJSONFile(event.Name) {
				continue
			}

			if !pendingSeen[event.Name] {
				pendingSeen[event.Name] = true
				pending.Paths = append(pending.Paths, event.Name)
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				pending.Removed = append(pending.Removed, event.Name)
			}

			if flushTimer == nil {
				flushTimer = time.NewTimer(contentWatcher.debounce)
			} else {
				if !flushTimer.Stop() {
					select {
					case <-flushTimer.C:
					default:
					}
				}
				flushTimer.Reset(contentWatcher.debounce)
			}
			flushChannel = flushTimer.C

		case <-flushChannel:
			flushChannel = nil
			flush()

		case err, ok := <-contentWatcher.watcher.Errors:
			if !ok {
				return
			}
			if contentWatcher.onError != nil {
				contentWatcher.onError(err)
			}
		}
	}
}

func isJSONFile(path string) bool {
	const suffix = ".json"
	return len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix
}
