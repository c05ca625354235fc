// Package engine mirrors Markdown sources and the files they link to into a
// static site tree.
//
// The engine:
// 1. Copies every file a Markdown document links to into place
// 2. Writes the document with its links rewritten to served URLs
// 3. Removes mirrored files when their sources go away
package engine

import (
	"context"
	"path/filepath"

	"github.com/mschirtzinger/mdsync/internal/content"
	"github.com/mschirtzinger/mdsync/internal/fsops"
	"github.com/mschirtzinger/mdsync/internal/logging"
	"github.com/mschirtzinger/mdsync/internal/mapping"
	"github.com/mschirtzinger/mdsync/internal/watch"
)

// Change describes one mirrored file, as reported to a Notifier.
type Change struct {
	Op     string `json:"op"`
	Source string `json:"source"`
	Target string `json:"target"`
	URL    string `json:"url,omitempty"`
}

// Notifier is told about every file the engine writes or removes.
type Notifier interface {
	Notify(Change)
}

// Options holds engine configuration.
type Options struct {
	// Extractor finds links in Markdown. Nil means the pattern extractor.
	Extractor content.Extractor

	// CascadeDirDelete removes the mirrored content directory when a source
	// directory is removed. Off by default: the directory is left in place.
	CascadeDirDelete bool

	Logger   logging.Logger
	Notifier Notifier
}

// SyncableFile pairs a source file with its mirrored location.
type SyncableFile struct {
	Source string
	Target string
}

// Engine handles change events for a fixed set of mappings.
type Engine struct {
	mapper    *mapping.Mapper
	fs        *fsops.FS
	resolver  *fsops.Resolver
	extractor content.Extractor
	logger    logging.Logger
	notifier  Notifier
	cascade   bool
}

// New creates an Engine mirroring through fsys.
func New(mapper *mapping.Mapper, fsys *fsops.FS, opts Options) *Engine {
	if fsys == nil {
		fsys = fsops.OS()
	}
	if opts.Extractor == nil {
		opts.Extractor = content.NewPatternExtractor()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return &Engine{
		mapper:    mapper,
		fs:        fsys,
		resolver:  fsops.NewResolver(fsys),
		extractor: opts.Extractor,
		logger:    opts.Logger,
		notifier:  opts.Notifier,
		cascade:   opts.CascadeDirDelete,
	}
}

// Mapper returns the mapper the engine was built with.
func (e *Engine) Mapper() *mapping.Mapper {
	return e.mapper
}

// EventSource is the subset of watch.Watcher the engine consumes.
type EventSource interface {
	Events() <-chan watch.Event
	Errors() <-chan error
}

// Run handles events from src one at a time until ctx is cancelled or the
// event channel is closed.
func (e *Engine) Run(ctx context.Context, src EventSource) error {
	e.logger.Infof("Watching %d source(s) for changes", len(e.mapper.Mappings()))

	events, errs := src.Events(), src.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := e.Handle(ev); err != nil {
				e.logger.Errorf("%s %s: %v", ev.Op, ev.Path, err)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			e.logger.Errorf("Watcher error: %v", err)
		}
	}
}

// Handle dispatches a single event.
func (e *Engine) Handle(ev watch.Event) error {
	if e.mapper.Ignored(ev.Path) {
		return nil
	}

	switch ev.Op {
	case watch.OpAdd, watch.OpChange:
		return e.HandleAdd(ev.Path)
	case watch.OpUnlink:
		return e.HandleUnlink(ev.Path)
	case watch.OpAddDir:
		return e.HandleAddDir(ev.Path)
	case watch.OpUnlinkDir:
		return e.HandleUnlinkDir(ev.Path)
	default:
		return nil
	}
}

// HandleAdd mirrors path. For Markdown, every linked file is copied first
// and the document is written last with its links rewritten.
func (e *Engine) HandleAdd(path string) error {
	return e.syncFile(filepath.Clean(path), make(map[string]bool))
}

// HandleUnlink removes the mirrored copy of path. Files it linked to stay.
func (e *Engine) HandleUnlink(path string) error {
	path = filepath.Clean(path)
	mp, ok := e.mapper.Owner(path)
	if !ok {
		e.logger.Warnf("No sync source owns %s, skipping", path)
		return nil
	}

	target, err := e.mapper.TargetPath(path, mp)
	if err != nil {
		return err
	}

	if err := e.fs.RemoveFile(target); err != nil {
		return &SyncError{Op: "delete", Source: path, Target: target, Err: err}
	}
	e.logger.Infof("Removed %s", target)
	e.notify(Change{Op: "unlink", Source: path, Target: target})
	return nil
}

// HandleAddDir mirrors every Markdown file below dir. A failure on one
// file is logged and does not stop the others.
func (e *Engine) HandleAddDir(dir string) error {
	dir = filepath.Clean(dir)
	if _, ok := e.mapper.Owner(dir); !ok {
		e.logger.Warnf("No sync source owns %s, skipping", dir)
		return nil
	}

	files, err := e.fs.FilesInDirectory(dir, func(path string) bool {
		return content.IsMarkdown(path) && !e.mapper.Ignored(path)
	})
	if err != nil {
		return err
	}

	visited := make(map[string]bool)
	for _, file := range files {
		if visited[file] {
			continue
		}
		if err := e.syncFile(file, visited); err != nil {
			e.logger.Errorf("%v", err)
		}
	}
	return nil
}

// HandleUnlinkDir removes the mirrored content directory of dir when
// cascading deletes are enabled, and only logs otherwise.
func (e *Engine) HandleUnlinkDir(dir string) error {
	dir = filepath.Clean(dir)
	if !e.cascade {
		e.logger.Infof("Directory %s removed; mirrored files left in place", dir)
		return nil
	}

	mp, ok := e.mapper.Owner(dir)
	if !ok {
		e.logger.Warnf("No sync source owns %s, skipping", dir)
		return nil
	}
	rel, err := e.mapper.Relative(dir, mp)
	if err != nil {
		return err
	}
	if rel == "" || rel == "." {
		e.logger.Warnf("Refusing to remove the target of source root %s", dir)
		return nil
	}

	target := filepath.Join(mp.Target, rel)
	if err := e.fs.RemoveAll(target); err != nil {
		return &SyncError{Op: "delete", Source: dir, Target: target, Err: err}
	}
	e.logger.Infof("Removed %s", target)
	e.notify(Change{Op: "unlinkDir", Source: dir, Target: target})
	return nil
}

// syncFile mirrors one file. visited holds the Markdown documents already
// handled during this call so that documents linking each other terminate.
func (e *Engine) syncFile(path string, visited map[string]bool) error {
	mp, ok := e.mapper.Owner(path)
	if !ok {
		e.logger.Warnf("No sync source owns %s, skipping", path)
		return nil
	}

	target, err := e.mapper.TargetPath(path, mp)
	if err != nil {
		return err
	}

	if !content.IsMarkdown(path) {
		return e.copyAsset(path, target, mp)
	}

	visited[path] = true

	data, err := e.readDocument(path)
	if err != nil {
		return err
	}

	var rewrites []content.Link
	for _, link := range e.resolveLinks(path, mp, data) {
		if !link.Found() {
			e.logger.Warnf("Could not resolve %q in %s, skipping", link.Raw, path)
			continue
		}

		if content.IsMarkdown(link.Path) {
			if !visited[link.Path] {
				if err := e.syncFile(link.Path, visited); err != nil {
					e.logger.Errorf("%v", err)
				}
			}
		} else if err := e.copyAsset(link.Path, link.Target, link.Mapping); err != nil {
			e.logger.Errorf("%v", err)
		}

		rewrites = append(rewrites, content.Link{Raw: link.Raw, URL: link.URL})
	}

	out := content.RewriteAll(string(data), rewrites)
	if err := e.fs.WriteFile(target, []byte(out)); err != nil {
		return &SyncError{Op: "write", Source: path, Target: target, Err: err}
	}

	e.logger.Infof("Synced %s -> %s", path, target)
	e.notify(Change{Op: "write", Source: path, Target: target, URL: e.servedURL(path, mp)})
	return nil
}

func (e *Engine) copyAsset(src, dst string, mp mapping.Mapping) error {
	if err := e.fs.CopyFile(src, dst); err != nil {
		return &SyncError{Op: "copy", Source: src, Target: dst, Err: err}
	}
	e.logger.Debugf("Copied %s -> %s", src, dst)
	e.notify(Change{Op: "copy", Source: src, Target: dst, URL: e.servedURL(src, mp)})
	return nil
}

func (e *Engine) readDocument(path string) ([]byte, error) {
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, &content.FileReadError{Path: path, Err: err}
	}
	return data, nil
}

func (e *Engine) servedURL(path string, mp mapping.Mapping) string {
	url, err := e.mapper.ServedURL(path, mp)
	if err != nil {
		return ""
	}
	return url
}

func (e *Engine) notify(c Change) {
	if e.notifier != nil {
		e.notifier.Notify(c)
	}
}
