package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

/** @brief The configuration for the level system. */
type LevelSystemConfig struct {
	/**
	 * @brief Number of workers fetching mesh assets. With more than one the
	 * MeshLoader must be safe for concurrent use. Buffers are always
	 * assembled in discovery order, so the result does not depend on it.
	 */
	Workers int
	/**
	 * @brief Optional. Called after each mesh fetch with the number fetched
	 * so far and the number of unique meshes in the level. Calls are
	 * serialized.
	 */
	Progress func(fetched, total int)
}

type LevelSystem struct {
	config LevelSystemConfig
	loader resources.MeshLoader
	// nil when assets are fetched inline.
	jobs *JobSystem

	// Serializes Load calls.
	loadMu     sync.Mutex
	progressMu sync.Mutex
	mu         sync.RWMutex
	current    *Level
}

type meshFetch struct {
	asset *resources.MeshAsset
	err   error
}

func NewLevelSystem(config LevelSystemConfig, loader resources.MeshLoader) (*LevelSystem, error) {
	if loader == nil {
		err := fmt.Errorf("func NewLevelSystem - a mesh loader is required")
		core.LogError(err.Error())
		return nil, err
	}
	if config.Workers < 1 {
		err := fmt.Errorf("func NewLevelSystem - config.Workers must be > 0")
		core.LogError(err.Error())
		return nil, err
	}

	ls := &LevelSystem{
		config: config,
		loader: loader,
	}
	if config.Workers > 1 {
		js, err := NewJobSystem(config.Workers, config.Workers)
		if err != nil {
			return nil, err
		}
		ls.jobs = js
	}

	core.LogInfo("Level system initialized with %d mesh loading worker(s).", config.Workers)
	return ls, nil
}

func (ls *LevelSystem) Shutdown() error {
	ls.loadMu.Lock()
	defer ls.loadMu.Unlock()

	if ls.jobs == nil {
		return nil
	}
	err := ls.jobs.Shutdown()
	ls.jobs = nil
	return err
}

// Load builds a level from an empty registry: the scene is read and grouped
// into instance runs first, then every distinct mesh is assembled in
// discovery order. Unresolvable meshes are skipped and reported as warnings.
//
// If the scene cannot be read, Load returns an empty level together with an
// error wrapping core.ErrSceneUnavailable.
func (ls *LevelSystem) Load(reader resources.SceneReader) (*Level, error) {
	ls.loadMu.Lock()
	defer ls.loadMu.Unlock()

	clock := core.NewClock()
	clock.Start()

	b := NewLevelBuilder()
	core.LogDebug("[%s] loading level", b.ID().Short())

	instances, err := reader.ReadScene()
	if err != nil {
		err = fmt.Errorf("%w: %w", core.ErrSceneUnavailable, err)
		core.LogError("[%s] level loading error: %v", b.ID().Short(), err)
		lvl := b.Finalize()
		ls.publish(lvl, clock)
		return lvl, err
	}

	for _, inst := range instances {
		b.AddInstance(inst.MeshName, inst.Transform)
	}

	names := b.MeshNames()
	fetched := ls.fetch(names)
	for i, name := range names {
		if fetched[i].err != nil {
			b.Fail(name, fetched[i].err)
			continue
		}
		// Failures are recorded on the builder.
		_ = b.AddMesh(name, fetched[i].asset)
	}

	lvl := b.Finalize()
	ls.publish(lvl, clock)
	return lvl, nil
}

// Current returns the most recently loaded level, or nil.
func (ls *LevelSystem) Current() *Level {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.current
}

func (ls *LevelSystem) publish(lvl *Level, clock *core.Clock) {
	clock.Stop()
	lvl.Metrics.LoadTime = clock.Elapsed()

	ls.mu.Lock()
	ls.current = lvl
	ls.mu.Unlock()

	core.LogInfo("[%s] level ready: %s", lvl.ID.Short(), lvl.Metrics)
}

// fetch loads the assets for names, returning results in the same order.
func (ls *LevelSystem) fetch(names []string) []meshFetch {
	results := make([]meshFetch, len(names))
	fetched := 0
	done := func() {
		ls.progressMu.Lock()
		defer ls.progressMu.Unlock()
		fetched++
		if ls.config.Progress != nil {
			ls.config.Progress(fetched, len(names))
		}
	}

	if ls.jobs == nil {
		for i, name := range names {
			results[i].asset, results[i].err = ls.loader.LoadMesh(name)
			done()
		}
		return results
	}

	var wg sync.WaitGroup
	wg.Add(len(names))
	for i, name := range names {
		ls.jobs.Submit(JobTask{
			Name: "load mesh " + name,
			OnStart: func() (interface{}, error) {
				return ls.loader.LoadMesh(name)
			},
			OnComplete: func(result interface{}) {
				results[i].asset, _ = result.(*resources.MeshAsset)
			},
			OnFailure: func(err error) {
				results[i].err = err
			},
			OnCompletionCallback: func() {
				done()
				wg.Done()
			},
		})
	}
	wg.Wait()
	return results
}
