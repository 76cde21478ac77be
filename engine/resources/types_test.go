package resources

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/math"
)

func quad(name string) *MeshAsset {
	return &MeshAsset{
		Name:      name,
		Vertices:  make([]math.Vertex3D, 4),
		Indices:   []uint32{0, 1, 2, 2, 3, 0},
		Submeshes: []Submesh{{IndexOffset: 0, IndexCount: 3}, {IndexOffset: 3, IndexCount: 3, MaterialID: 1}},
		Materials: []Material{{Name: "a"}, {Name: "b"}},
	}
}

func TestMeshAssetValidate(t *testing.T) {
	if err := quad("quad").Validate(); err != nil {
		t.Fatalf("Validate: unexpected error %v", err)
	}

	cases := map[string]func(*MeshAsset){
		"no submeshes":   func(m *MeshAsset) { m.Submeshes = nil },
		"range":          func(m *MeshAsset) { m.Submeshes[1].IndexCount = 4 },
		"range overflow": func(m *MeshAsset) { m.Submeshes[1].IndexOffset = ^uint32(0) },
		"material":       func(m *MeshAsset) { m.Submeshes[0].MaterialID = 2 },
		"vertex":         func(m *MeshAsset) { m.Indices[5] = 4 },
	}
	for name, broken := range cases {
		m := quad("quad")
		broken(m)
		if err := m.Validate(); !errors.Is(err, core.ErrMalformedMesh) {
			t.Fatalf("Validate(%s):\nhave %v\nwant %v", name, err, core.ErrMalformedMesh)
		}
	}
}

func TestSubmeshIndices(t *testing.T) {
	m := quad("quad")
	have := m.SubmeshIndices(1)
	want := []uint32{2, 3, 0}
	for i := range want {
		if have[i] != want[i] {
			t.Fatalf("SubmeshIndices(1):\nhave %v\nwant %v", have, want)
		}
	}
}

func TestMemoryMeshLoader(t *testing.T) {
	ml := NewMemoryMeshLoader(quad("quad"))
	if _, err := ml.LoadMesh("quad"); err != nil {
		t.Fatalf("LoadMesh(quad): %v", err)
	}
	if _, err := ml.LoadMesh("ghost"); !errors.Is(err, core.ErrMeshNotFound) {
		t.Fatalf("LoadMesh(ghost):\nhave %v\nwant %v", err, core.ErrMeshNotFound)
	}
	broken := quad("broken")
	broken.Submeshes = nil
	ml.Add(broken)
	if _, err := ml.LoadMesh("broken"); !errors.Is(err, core.ErrMalformedMesh) {
		t.Fatalf("LoadMesh(broken):\nhave %v\nwant %v", err, core.ErrMalformedMesh)
	}
	if x := ml.Loads("quad"); x != 1 {
		t.Fatalf("Loads(quad):\nhave %d\nwant 1", x)
	}
}
