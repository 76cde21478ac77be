package resources

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/levelbatch/engine/core"
)

// MemoryScene is a SceneReader over a fixed instance list.
type MemoryScene []SceneInstance

func (ms MemoryScene) ReadScene() ([]SceneInstance, error) {
	out := make([]SceneInstance, len(ms))
	copy(out, ms)
	return out, nil
}

// MemoryMeshLoader serves mesh assets registered in memory. It is safe for
// concurrent use.
type MemoryMeshLoader struct {
	mu     sync.RWMutex
	meshes map[string]*MeshAsset
	loads  map[string]int
}

func NewMemoryMeshLoader(meshes ...*MeshAsset) *MemoryMeshLoader {
	ml := &MemoryMeshLoader{
		meshes: make(map[string]*MeshAsset, len(meshes)),
		loads:  make(map[string]int),
	}
	for _, m := range meshes {
		ml.Add(m)
	}
	return ml
}

func (ml *MemoryMeshLoader) Add(mesh *MeshAsset) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.meshes[mesh.Name] = mesh
}

func (ml *MemoryMeshLoader) LoadMesh(name string) (*MeshAsset, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.loads[name]++
	m, ok := ml.meshes[name]
	if !ok {
		return nil, fmt.Errorf("mesh '%s': %w", name, core.ErrMeshNotFound)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Loads returns how many times name was requested.
func (ml *MemoryMeshLoader) Loads(name string) int {
	ml.mu.RLock()
	defer ml.mu.RUnlock()
	return ml.loads[name]
}
