package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mschirtzinger/mdsync/internal/mapping"
)

// SyncStats summarises a full sync.
type SyncStats struct {
	Files  int
	Failed int
}

// Plan lists every non-ignored file of every mapping with its mirrored
// location, in mapping order. A file under nested sources is listed once,
// for the most specific source.
func (e *Engine) Plan() ([]SyncableFile, error) {
	var plan []SyncableFile
	for _, mp := range e.mapper.Mappings() {
		files, err := e.filesOf(mp)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			target, err := e.mapper.TargetPath(file, mp)
			if err != nil {
				return nil, err
			}
			plan = append(plan, SyncableFile{Source: file, Target: target})
		}
	}
	return plan, nil
}

// FullSync mirrors every file of every mapping. It's used for one-shot
// builds and can be triggered manually while watching.
func (e *Engine) FullSync(ctx context.Context) (SyncStats, error) {
	e.logger.Infof("Performing full sync")

	var stats SyncStats
	visited := make(map[string]bool)

	for _, mp := range e.mapper.Mappings() {
		files, err := e.filesOf(mp)
		if err != nil {
			return stats, fmt.Errorf("failed to list %s: %w", mp.Source, err)
		}

		e.logger.Infof("Syncing %d files from %s", len(files), mp.Source)
		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			if visited[file] {
				continue
			}
			stats.Files++
			if err := e.syncFile(file, visited); err != nil {
				stats.Failed++
				e.logger.Errorf("%v", err)
			}
		}
	}

	e.logger.Infof("Full sync complete: %d files, %d failed", stats.Files, stats.Failed)
	return stats, nil
}

// filesOf returns the files mp owns, skipping ignored paths and files that
// belong to a more specific nested source.
func (e *Engine) filesOf(mp mapping.Mapping) ([]string, error) {
	return e.fs.FilesInDirectory(mp.Source, func(path string) bool {
		if e.mapper.Ignored(path) {
			return false
		}
		owner, ok := e.mapper.Owner(path)
		return ok && filepath.Clean(owner.Source) == filepath.Clean(mp.Source)
	})
}
