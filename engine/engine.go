package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/levelbatch/engine/assets"
	"github.com/spaghettifunk/levelbatch/engine/containers"
	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/renderer"
	"github.com/spaghettifunk/levelbatch/engine/resources"
	"github.com/spaghettifunk/levelbatch/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Asset changes arriving within this window are folded into one reload.
const reloadSettle = 100 * time.Millisecond

type Engine struct {
	config       *core.Config
	assetManager *assets.AssetManager
	levelSystem  *systems.LevelSystem
	// Pending reload causes, drained once per settle window.
	reloads *containers.RingQueue[string]

	mu           sync.RWMutex
	currentStage Stage
	levelName    string
	frame        *renderer.FrameData

	quit         chan struct{}
	shutdownOnce sync.Once
}

type options struct {
	progress func(fetched, total int)
}

type Option func(*options)

// WithLoadProgress reports mesh fetch progress for every level load.
func WithLoadProgress(fn func(fetched, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func New(config *core.Config, opts ...Option) (*Engine, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if config == nil {
		config = core.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager(config.Assets)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	ls, err := systems.NewLevelSystem(systems.LevelSystemConfig{
		Workers:  config.Loader.Workers,
		Progress: o.progress,
	}, am)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:       config,
		currentStage: EngineStageUninitialized,
		assetManager: am,
		levelSystem:  ls,
		reloads:      containers.NewRingQueue[string](config.Loader.ReloadQueue),
		levelName:    config.Loader.Level,
		quit:         make(chan struct{}),
	}, nil
}

// Initialize indexes the assets and loads the configured level. A level
// that cannot be read leaves the engine with an empty level, not an error.
func (e *Engine) Initialize() error {
	if !e.transition(EngineStageUninitialized, EngineStageInitializing) {
		return fmt.Errorf("func Initialize - engine already initialized")
	}

	if err := e.assetManager.Initialize(); err != nil {
		return err
	}

	if _, err := e.LoadLevel(e.config.Loader.Level); err != nil && !errors.Is(err, core.ErrSceneUnavailable) {
		return err
	}

	e.transition(EngineStageInitializing, EngineStageInitialized)
	return nil
}

// LoadLevel builds the named level from scratch and makes it current.
func (e *Engine) LoadLevel(name string) (*systems.Level, error) {
	lvl, loadErr := e.levelSystem.Load(e.assetManager.Level(name))
	if loadErr != nil {
		core.LogWarn("level '%s' unavailable, continuing with an empty level", name)
	}

	frame, err := renderer.NewFrameData(lvl)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.levelName = name
	e.frame = frame
	e.mu.Unlock()

	return lvl, loadErr
}

func (e *Engine) Level() *systems.Level {
	return e.levelSystem.Current()
}

func (e *Engine) LevelName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.levelName
}

// Frame returns the renderer data of the current level.
func (e *Engine) Frame() *renderer.FrameData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.frame
}

func (e *Engine) Stage() Stage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentStage
}

// transition moves the engine from one stage to the next, reporting false if
// it was not in the expected stage.
func (e *Engine) transition(from, to Stage) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentStage != from {
		return false
	}
	e.currentStage = to
	return true
}

// Run rebuilds the current level whenever one of its assets changes, until
// Shutdown is called. Without asset watching there is nothing to run and it
// returns immediately.
func (e *Engine) Run() error {
	if e.Stage() != EngineStageInitialized {
		return fmt.Errorf("func Run - engine must be initialized first")
	}
	if !e.config.Assets.Watch {
		core.LogDebug("asset watching disabled, nothing to run")
		return nil
	}
	if !e.transition(EngineStageInitialized, EngineStageRunning) {
		// Shut down in the meantime.
		return nil
	}

	ticker := time.NewTicker(reloadSettle)
	defer ticker.Stop()

	events := e.assetManager.Events()
	watchErrors := e.assetManager.Errors()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.onAssetEvent(ev)

		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			core.LogWarn("asset watcher: %s", err.Error())

		case <-ticker.C:
			if causes := e.reloads.Drain(); len(causes) > 0 {
				name := e.LevelName()
				core.LogInfo("reloading level '%s' after %d change(s), first: %s", name, len(causes), causes[0])
				// Failures are logged by the level system.
				_, _ = e.LoadLevel(name)
			}

		case <-e.quit:
			return nil
		}
	}
}

func (e *Engine) onAssetEvent(ev assets.AssetEvent) {
	switch ev.Asset.Type {
	case resources.ResourceTypeLevel:
		if ev.Asset.Name != e.LevelName() {
			return
		}
	case resources.ResourceTypeMesh:
	default:
		return
	}

	if err := e.reloads.Enqueue(ev.Asset.Path); err != nil {
		if errors.Is(err, containers.ErrQueueFull) {
			core.LogDebug("reload already pending, dropping cause %s", ev.Asset.Path)
			return
		}
		core.LogError(err.Error())
	}
}

func (e *Engine) Shutdown() error {
	var err error
	e.shutdownOnce.Do(func() {
		e.mu.Lock()
		e.currentStage = EngineStageShuttingDown
		e.mu.Unlock()
		close(e.quit)
		if amErr := e.assetManager.Shutdown(); amErr != nil {
			err = amErr
		}
		if lsErr := e.levelSystem.Shutdown(); lsErr != nil && err == nil {
			err = lsErr
		}
	})
	return err
}
