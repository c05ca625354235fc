// Package watch provides recursive file system watching for mapping sources.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mschirtzinger/mdsync/internal/logging"
)

// EventOp represents the type of change observed under a watched root.
type EventOp int

const (
	// OpAdd indicates a new file appeared.
	OpAdd EventOp = iota
	// OpChange indicates an existing file was written.
	OpChange
	// OpUnlink indicates a file was removed or renamed away.
	OpUnlink
	// OpAddDir indicates a new directory appeared.
	OpAddDir
	// OpUnlinkDir indicates a watched directory was removed or renamed away.
	OpUnlinkDir
)

// String returns a human-readable representation of the operation.
func (op EventOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpChange:
		return "change"
	case OpUnlink:
		return "unlink"
	case OpAddDir:
		return "addDir"
	case OpUnlinkDir:
		return "unlinkDir"
	default:
		return "unknown"
	}
}

// Event is a single change notification.
type Event struct {
	// Path is the absolute path that changed.
	Path string
	Op   EventOp
}

// Config holds watcher options.
type Config struct {
	// Debounce is how long a path must stay quiet before its event is
	// delivered. Zero delivers events as they arrive.
	Debounce time.Duration

	// Ignore reports paths that must be neither watched nor reported.
	Ignore func(path string) bool

	// InitialScan emits OpAdd for every file present when Start is called.
	InitialScan bool

	Logger logging.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:    100 * time.Millisecond,
		InitialScan: true,
	}
}

type pendingEvent struct {
	op       EventOp
	queuedAt time.Time
}

// Watcher watches directory trees and reports add, change, unlink, addDir
// and unlinkDir events. Directories created after Start are watched too.
type Watcher struct {
	watcher *fsnotify.Watcher
	config  Config
	events  chan Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	// dirs holds every directory currently watched, so a removal can be
	// reported as unlinkDir after the path is gone.
	dirs map[string]bool
	// gone holds directories already reported as unlinkDir; the parent's
	// watch reports the same removal a second time.
	gone   map[string]bool
	dirsMu sync.Mutex

	pending   map[string]pendingEvent
	pendingMu sync.Mutex
}

// NewWatcher creates a new Watcher instance.
// The watcher must be started with Start() before it will emit events.
func NewWatcher(config Config) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	if config.Ignore == nil {
		config.Ignore = func(string) bool { return false }
	}

	return &Watcher{
		watcher: watcher,
		config:  config,
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
		dirs:    make(map[string]bool),
		gone:    make(map[string]bool),
		pending: make(map[string]pendingEvent),
	}, nil
}

// Start begins watching roots and every directory below them.
// Returns an error if a root cannot be watched.
func (w *Watcher) Start(roots ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyRunning
	}
	if len(roots) == 0 {
		return ErrNoRoots
	}

	var initial []string
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", root, err)
		}
		files, err := w.addTree(abs)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
		initial = append(initial, files...)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	if w.config.Debounce > 0 {
		w.wg.Add(1)
		go w.processPending()
	}

	if w.config.InitialScan && len(initial) > 0 {
		w.wg.Add(1)
		go w.emitInitial(initial)
	}

	return nil
}

// Stop stops watching and closes the Events and Errors channels.
// It blocks until every goroutine has exited; pending debounced events are
// dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.wg.Wait()

	close(w.events)
	close(w.errors)

	return nil
}

// Events returns the channel that emits Event notifications.
// This channel is closed when the watcher is stopped.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel that emits error notifications.
// This channel is closed when the watcher is stopped.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning returns true if the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// WatchedDirs returns the watched directories in sorted order.
func (w *Watcher) WatchedDirs() []string {
	w.dirsMu.Lock()
	defer w.dirsMu.Unlock()

	out := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

// addTree watches root and every non-ignored directory below it, returning
// the files found along the way in walk order.
func (w *Watcher) addTree(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.config.Logger.Warnf("Skipping %s: %v", path, err)
			return nil
		}
		if path != root && w.config.Ignore(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, path)
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			if path == root {
				return err
			}
			w.config.Logger.Warnf("Cannot watch %s: %v", path, err)
			return nil
		}
		w.dirsMu.Lock()
		w.dirs[path] = true
		delete(w.gone, path)
		w.dirsMu.Unlock()
		return nil
	})
	return files, err
}

// forgetTree drops dir and everything below it from the known directories.
func (w *Watcher) forgetTree(dir string) {
	w.dirsMu.Lock()
	defer w.dirsMu.Unlock()

	w.gone[dir] = true
	prefix := dir + string(filepath.Separator)
	for known := range w.dirs {
		if known == dir || len(known) > len(prefix) && known[:len(prefix)] == prefix {
			delete(w.dirs, known)
			// Removal of a deleted path fails; the kernel already dropped it.
			_ = w.watcher.Remove(known)
		}
	}
}

func (w *Watcher) isKnownDir(path string) bool {
	w.dirsMu.Lock()
	defer w.dirsMu.Unlock()
	return w.dirs[path]
}

// reported consumes the duplicate removal of a directory already reported.
func (w *Watcher) reported(path string) bool {
	w.dirsMu.Lock()
	defer w.dirsMu.Unlock()
	if w.gone[path] {
		delete(w.gone, path)
		return true
	}
	return false
}

func (w *Watcher) emitInitial(files []string) {
	defer w.wg.Done()

	for _, path := range files {
		if !w.send(Event{Path: path, Op: OpAdd}) {
			return
		}
	}
}

// processEvents is the main event loop that converts fsnotify events.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			for _, ev := range w.convertEvent(event) {
				w.queue(ev)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// convertEvent converts an fsnotify event into zero or more Events.
func (w *Watcher) convertEvent(event fsnotify.Event) []Event {
	path := filepath.Clean(event.Name)
	if w.config.Ignore(path) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(path)
		if err != nil {
			// Gone again before we looked.
			return nil
		}
		if !info.IsDir() {
			return []Event{{Path: path, Op: OpAdd}}
		}
		files, err := w.addTree(path)
		if err != nil {
			w.sendError(fmt.Errorf("failed to watch new directory %s: %w", path, err))
		}
		// Files created before the watch was in place would otherwise be
		// missed.
		out := []Event{{Path: path, Op: OpAddDir}}
		for _, f := range files {
			out = append(out, Event{Path: f, Op: OpAdd})
		}
		return out

	case event.Has(fsnotify.Write):
		return []Event{{Path: path, Op: OpChange}}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A rename reports the old name; the new name arrives as Create.
		if w.isKnownDir(path) {
			w.forgetTree(path)
			return []Event{{Path: path, Op: OpUnlinkDir}}
		}
		if w.reported(path) {
			return nil
		}
		return []Event{{Path: path, Op: OpUnlink}}

	default:
		return nil
	}
}

// queue records ev for delivery once its path has been quiet for the
// debounce interval.
func (w *Watcher) queue(ev Event) {
	if w.config.Debounce <= 0 {
		w.send(ev)
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	prev, ok := w.pending[ev.Path]
	op := ev.Op
	if ok {
		op = coalesce(prev.op, ev.Op)
	}
	w.pending[ev.Path] = pendingEvent{op: op, queuedAt: time.Now()}
}

// coalesce merges two operations observed on one path within a debounce
// window.
func coalesce(prev, next EventOp) EventOp {
	switch {
	case prev == OpAdd && next == OpChange:
		return OpAdd
	case prev == OpUnlink && next == OpAdd:
		return OpChange
	case prev == OpAddDir && next == OpChange:
		return OpAddDir
	case prev == OpUnlinkDir && next == OpUnlink:
		return OpUnlinkDir
	default:
		return next
	}
}

// minTick bounds how often pending events are checked.
const minTick = time.Millisecond

// tickInterval is how often pending events are checked for debounce.
func tickInterval(debounce time.Duration) time.Duration {
	return max(debounce/2, minTick)
}

// processPending delivers queued events with debouncing.
func (w *Watcher) processPending() {
	defer w.wg.Done()

	ticker := time.NewTicker(tickInterval(w.config.Debounce))
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			for _, ev := range w.readyEvents(time.Now()) {
				if !w.send(ev) {
					return
				}
			}
		}
	}
}

// readyEvents removes and returns the events that have been queued for at
// least the debounce interval, oldest first.
func (w *Watcher) readyEvents(now time.Time) []Event {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	type ready struct {
		Event
		at time.Time
	}
	var out []ready
	for path, p := range w.pending {
		if now.Sub(p.queuedAt) < w.config.Debounce {
			continue
		}
		out = append(out, ready{Event: Event{Path: path, Op: p.op}, at: p.queuedAt})
		delete(w.pending, path)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].at.Equal(out[j].at) {
			return out[i].Path < out[j].Path
		}
		return out[i].at.Before(out[j].at)
	})

	events := make([]Event, len(out))
	for i, r := range out {
		events[i] = r.Event
	}
	return events
}

func (w *Watcher) send(ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-w.done:
		return false
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	case <-w.done:
	default:
		w.config.Logger.Errorf("Watcher error: %v", err)
	}
}

// ErrAlreadyRunning is returned by Start on a running watcher.
var ErrAlreadyRunning = errors.New("watcher already running")

// ErrNoRoots is returned by Start when no directory is given.
var ErrNoRoots = errors.New("no directories to watch")
