package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/mschirtzinger/mdsync/internal/fsops"
	"github.com/mschirtzinger/mdsync/internal/logging"
	"github.com/mschirtzinger/mdsync/internal/mapping"
	"github.com/mschirtzinger/mdsync/internal/watch"
)

// DevCommand is the only lifecycle command that starts watching.
const DevCommand = "dev"

// Hook carries what the site tool passes to its setup callback.
type Hook struct {
	Command string
	Logger  logging.Logger
	Site    mapping.Site
}

// IntegrationConfig holds integration options.
type IntegrationConfig struct {
	// FS is used for mirroring and source checks. Nil means the OS
	// filesystem.
	FS *fsops.FS

	Watch  watch.Config
	Engine Options
}

// Integration owns at most one running engine and its watcher.
type Integration struct {
	inputs []mapping.Input
	config IntegrationConfig

	mu      sync.Mutex
	engine  *Engine
	watcher *watch.Watcher
	done    chan struct{}
}

// NewIntegration creates an integration for inputs. With no inputs the
// CONTENT_SYNC environment variable is used at setup time.
func NewIntegration(inputs []mapping.Input, config IntegrationConfig) *Integration {
	if config.FS == nil {
		config.FS = fsops.OS()
	}
	return &Integration{inputs: inputs, config: config}
}

// Setup starts watching when hook.Command is "dev". Any other command logs
// a warning and returns a nil engine. Calling Setup again while an engine is
// running returns that engine. Setup fails with mapping.ErrNoMappings when
// no input yields a usable mapping.
//
// The watcher stops when ctx is cancelled.
func (i *Integration) Setup(ctx context.Context, hook Hook) (*Engine, error) {
	logger := hook.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if hook.Command != DevCommand {
		logger.Warnf("content sync is only available in dev mode")
		return nil, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.engine != nil {
		logger.Infof("content sync is already running")
		return i.engine, nil
	}

	mappings := mapping.Build(i.inputs, hook.Site, i.config.FS, logger)
	if len(mappings) == 0 {
		logger.Errorf(mapping.NoMappings)
		return nil, mapping.ErrNoMappings
	}

	mapper, err := mapping.NewMapper(hook.Site, mappings)
	if err != nil {
		return nil, err
	}

	opts := i.config.Engine
	if opts.Logger == nil {
		opts.Logger = logger
	}
	eng := New(mapper, i.config.FS, opts)

	wcfg := i.config.Watch
	wcfg.Ignore = mapper.Ignored
	if wcfg.Logger == nil {
		wcfg.Logger = logger
	}
	w, err := watch.NewWatcher(wcfg)
	if err != nil {
		return nil, err
	}
	if err := w.Start(mapper.Sources()...); err != nil {
		w.Stop()
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	for _, mp := range mappings {
		logger.Infof("Syncing %s", mp)
	}

	i.engine = eng
	i.watcher = w
	i.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		if err := eng.Run(ctx, w); err != nil {
			logger.Errorf("content sync stopped: %v", err)
		}
		if err := w.Stop(); err != nil {
			logger.Errorf("Error stopping watcher: %v", err)
		}
	}(i.done)

	return eng, nil
}

// Done is closed once the running engine has stopped. It is nil before a
// successful Setup.
func (i *Integration) Done() <-chan struct{} {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.done
}
