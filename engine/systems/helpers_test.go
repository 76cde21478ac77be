package systems

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/math"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

// testMesh builds a mesh asset with vertexCount vertices and one submesh per
// entry of submeshIndexCounts. Vertex positions encode the vertex number so
// copies can be traced in the combined buffer.
func testMesh(name string, vertexCount int, submeshIndexCounts ...uint32) *resources.MeshAsset {
	m := &resources.MeshAsset{Name: name}
	for i := 0; i < vertexCount; i++ {
		m.Vertices = append(m.Vertices, math.Vertex3D{Position: math.NewVec3(float32(i), 0, 0)})
	}
	for k, n := range submeshIndexCounts {
		m.Submeshes = append(m.Submeshes, resources.Submesh{
			IndexOffset: uint32(len(m.Indices)),
			IndexCount:  n,
			MaterialID:  uint32(k),
		})
		m.Materials = append(m.Materials, resources.Material{Name: name + "_mat", Illum: int32(k)})
		for i := uint32(0); i < n; i++ {
			m.Indices = append(m.Indices, uint32(len(m.Indices))%uint32(vertexCount))
		}
	}
	return m
}

func translate(x float32) math.Mat4 {
	return math.NewMat4Translation(math.NewVec3(x, 0, 0))
}

func testLoader() *resources.MemoryMeshLoader {
	return resources.NewMemoryMeshLoader(
		testMesh("cube", 8, 36),
		testMesh("sphere", 50, 100),
		testMesh("lamp", 12, 18, 6),
		testMesh("tree", 20, 30, 12, 6),
	)
}

// failingScene is a SceneReader whose file could not be opened.
type failingScene struct{}

func (failingScene) ReadScene() ([]resources.SceneInstance, error) {
	return nil, errors.New("open ../../Assets/Levels/missing.txt: no such file or directory")
}

// expectInvariantPanic runs fn and fails the test unless it panics with an
// error wrapping core.ErrInvariant.
func expectInvariantPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, core.ErrInvariant) {
			t.Fatalf("%s: expected an invariant panic, got %v", what, r)
		}
	}()
	fn()
}

// checkLevel verifies the properties every finished level must hold.
func checkLevel(t *testing.T, lvl *Level) {
	t.Helper()
	seen := make(map[string]bool)
	type run struct{ start, end uint32 }
	ranges := make(map[string]run)
	for _, d := range lvl.Drawables() {
		if seen[d.Key] {
			t.Fatalf("duplicate drawable key %q", d.Key)
		}
		seen[d.Key] = true
		if d.State != DrawableResolved {
			t.Fatalf("drawable %q in draw set with state %s", d.Key, d.State)
		}
		if d.FirstIndex+d.IndexCount > uint32(len(lvl.Indices())) {
			t.Fatalf("drawable %q index range [%d, +%d) exceeds %d", d.Key, d.FirstIndex, d.IndexCount, len(lvl.Indices()))
		}
		if d.VertexOffset > uint32(len(lvl.Vertices())) {
			t.Fatalf("drawable %q vertex offset %d exceeds %d", d.Key, d.VertexOffset, len(lvl.Vertices()))
		}
		if d.TransformOffset+d.InstanceCount > uint32(len(lvl.Transforms())) {
			t.Fatalf("drawable %q transform range exceeds %d", d.Key, len(lvl.Transforms()))
		}
		if d.MaterialIndex >= uint32(len(lvl.Materials())) {
			t.Fatalf("drawable %q material %d exceeds %d", d.Key, d.MaterialIndex, len(lvl.Materials()))
		}
		ranges[d.Mesh] = run{d.TransformOffset, d.TransformOffset + d.InstanceCount}
	}
	for a, ra := range ranges {
		for b, rb := range ranges {
			if a != b && ra.start < rb.end && rb.start < ra.end {
				t.Fatalf("instance ranges of %q %v and %q %v overlap", a, ra, b, rb)
			}
		}
	}
}
