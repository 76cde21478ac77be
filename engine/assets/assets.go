package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/levelbatch/engine/assets/loaders"
	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

const levelExtension = ".toml"

var ErrManagerClosed = errors.New("asset manager already closed")

type AssetInfo struct {
	Name     string
	Path     string
	Type     resources.ResourceType
	LastSeen time.Time
}

// AssetEvent reports a change to an indexed asset file.
type AssetEvent struct {
	Asset AssetInfo
	Op    fsnotify.Op
}

// AssetManager indexes mesh and level files by name and, when watching,
// keeps the index current and reports changes on Events.
type AssetManager struct {
	modelsDir string
	levelsDir string
	watch     bool

	// path -> info
	assets map[string]AssetInfo
	// type -> name -> path
	byName   map[resources.ResourceType]map[string]string
	decoders map[string]MeshDecoder

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	started  bool
	events   chan AssetEvent
	errors   chan error
}

func NewAssetManager(config core.AssetsConfig) (*AssetManager, error) {
	am := &AssetManager{
		modelsDir: filepath.Clean(filepath.Join(config.Dir, config.Models)),
		levelsDir: filepath.Clean(filepath.Join(config.Dir, config.Levels)),
		watch:     config.Watch,
		assets:    make(map[string]AssetInfo),
		byName: map[resources.ResourceType]map[string]string{
			resources.ResourceTypeMesh:  {},
			resources.ResourceTypeLevel: {},
		},
		decoders: make(map[string]MeshDecoder),
		events:   make(chan AssetEvent, 64),
		errors:   make(chan error, 8),
		done:     make(chan struct{}),
	}

	if config.Watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		am.fsnotify = fsWatch
	}

	am.RegisterMeshDecoder(".yaml", &loaders.YAMLMeshLoader{})
	am.RegisterMeshDecoder(".yml", &loaders.YAMLMeshLoader{})

	return am, nil
}

// Initialize builds the index and, when watching, starts the watch loop.
// Missing directories are reported and treated as empty.
func (am *AssetManager) Initialize() error {
	if am.isClosed {
		return ErrManagerClosed
	}
	for _, dir := range []string{am.modelsDir, am.levelsDir} {
		if _, err := os.Stat(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				core.LogWarn("asset directory '%s' does not exist", dir)
				continue
			}
			return err
		}
		if err := am.watchRecursive(dir); err != nil {
			return err
		}
	}

	if am.fsnotify != nil {
		am.mutex.Lock()
		am.started = true
		am.mutex.Unlock()
		go am.start()
	}

	core.LogInfo("indexed %d meshes and %d levels", len(am.Assets(resources.ResourceTypeMesh)), len(am.Assets(resources.ResourceTypeLevel)))
	return nil
}

// RegisterMeshDecoder maps a file extension (with the leading dot) to the
// decoder for mesh files of that format. Files already indexed are not
// re-scanned.
func (am *AssetManager) RegisterMeshDecoder(ext string, decoder MeshDecoder) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	am.decoders[strings.ToLower(ext)] = decoder
}

func (am *AssetManager) Events() <-chan AssetEvent {
	return am.events
}

func (am *AssetManager) Errors() <-chan error {
	return am.errors
}

func (am *AssetManager) Lookup(assetType resources.ResourceType, name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	path, ok := am.byName[assetType][name]
	if !ok {
		return AssetInfo{}, false
	}
	return am.assets[path], true
}

// Assets lists the indexed assets of one type sorted by name.
func (am *AssetManager) Assets(assetType resources.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	out := make([]AssetInfo, 0, len(am.byName[assetType]))
	for _, path := range am.byName[assetType] {
		out = append(out, am.assets[path])
	}
	slices.SortFunc(out, func(a, b AssetInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// LoadMesh reads and decodes the named mesh. Safe for concurrent use.
func (am *AssetManager) LoadMesh(name string) (*resources.MeshAsset, error) {
	am.mutex.RLock()
	path, ok := am.byName[resources.ResourceTypeMesh][name]
	var decoder MeshDecoder
	if ok {
		decoder = am.decoders[strings.ToLower(filepath.Ext(path))]
	}
	am.mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("mesh '%s': %w", name, core.ErrMeshNotFound)
	}
	if decoder == nil {
		return nil, fmt.Errorf("mesh '%s' (%s): %w", name, path, core.ErrUnknownAssetType)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("mesh '%s': %w", name, core.ErrMeshNotFound)
		}
		return nil, err
	}
	mesh, err := decoder.Decode(name, data)
	if err != nil {
		return nil, err
	}

	am.touch(path)
	return mesh, nil
}

// Level returns a reader for the named level manifest. An unknown name
// yields a reader whose ReadScene fails.
func (am *AssetManager) Level(name string) resources.SceneReader {
	if info, ok := am.Lookup(resources.ResourceTypeLevel, name); ok {
		am.touch(info.Path)
		return loaders.LevelFile{Path: info.Path}
	}
	return loaders.LevelFile{Path: filepath.Join(am.levelsDir, name+levelExtension)}
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if am.isClosed {
		return ErrManagerClosed
	}
	am.isClosed = true
	close(am.done)
	if !am.started {
		if am.fsnotify != nil {
			am.fsnotify.Close()
		}
		close(am.events)
		close(am.errors)
	}
	return nil
}

func (am *AssetManager) start() {
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())
			select {
			case am.errors <- e:
			default:
			}

		case <-am.done:
			am.fsnotify.Close()
			close(am.events)
			close(am.errors)
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	path := filepath.Clean(e.Name)

	if e.Op&fsnotify.Create != 0 {
		if s, err := os.Stat(path); err == nil && s.IsDir() {
			if err := am.watchRecursive(path); err != nil {
				core.LogError("failed to watch '%s': %s", path, err.Error())
			}
			return
		}
	}

	var info AssetInfo
	var ok bool
	switch {
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, ok = am.handleFileEvent(path)
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		info, ok = am.removeAsset(path)
		// Can't stat a deleted path, so try to drop it from the watch list in
		// case it was a directory.
		_ = am.fsnotify.Remove(path)
	}
	if !ok {
		return
	}

	select {
	case am.events <- AssetEvent{Asset: info, Op: e.Op}:
	default:
		core.LogDebug("asset event for '%s' dropped, queue full", path)
	}
}

// watchRecursive indexes every file under path and, when watching, adds each
// directory to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify != nil {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.handleFileEvent(filepath.Clean(walkPath))
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	assetType := am.determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return AssetInfo{}, false
	}

	info := AssetInfo{
		Name:     loaders.MeshName(filepath.Base(path)),
		Path:     path,
		Type:     assetType,
		LastSeen: time.Now(),
	}
	if prev, ok := am.byName[assetType][info.Name]; ok && prev != path {
		core.LogWarn("%s '%s' found at both '%s' and '%s', using the latter", assetType, info.Name, prev, path)
		delete(am.assets, prev)
	}
	am.assets[path] = info
	am.byName[assetType][info.Name] = path
	return info, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) (AssetInfo, bool) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	info, ok := am.assets[path]
	if !ok {
		return AssetInfo{}, false
	}
	delete(am.assets, path)
	if am.byName[info.Type][info.Name] == path {
		delete(am.byName[info.Type], info.Name)
	}
	return info, true
}

func (am *AssetManager) touch(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if info, ok := am.assets[path]; ok {
		info.LastSeen = time.Now()
		am.assets[path] = info
	}
}

// determineAssetType must be called with the mutex held.
func (am *AssetManager) determineAssetType(path string) resources.ResourceType {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case within(am.levelsDir, path) && ext == levelExtension:
		return resources.ResourceTypeLevel
	case within(am.modelsDir, path):
		if _, ok := am.decoders[ext]; ok {
			return resources.ResourceTypeMesh
		}
	}
	return resources.ResourceTypeNone
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
