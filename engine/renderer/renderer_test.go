package renderer

import (
	"encoding/binary"
	gomath "math"
	"testing"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/levelbatch/engine/math"
	"github.com/spaghettifunk/levelbatch/engine/resources"
	"github.com/spaghettifunk/levelbatch/engine/systems"
)

func quadVertices(n int, base float32) []math.Vertex3D {
	out := make([]math.Vertex3D, n)
	for i := range out {
		out[i].Position = math.NewVec3(base+float32(i), 0, 0)
	}
	return out
}

// testLevel holds two cube instances and one lamp split into two parts.
func testLevel(t *testing.T) *systems.Level {
	t.Helper()
	loader := resources.NewMemoryMeshLoader(
		&resources.MeshAsset{
			Name:      "cube",
			Vertices:  quadVertices(3, 0),
			Indices:   []uint32{0, 1, 2},
			Submeshes: []resources.Submesh{{IndexOffset: 0, IndexCount: 3}},
			Materials: []resources.Material{{Name: "stone", Illum: 7}},
		},
		&resources.MeshAsset{
			Name:     "lamp",
			Vertices: quadVertices(4, 100),
			Indices:  []uint32{0, 1, 2, 2, 3, 0},
			Submeshes: []resources.Submesh{
				{IndexOffset: 0, IndexCount: 3, MaterialID: 0},
				{IndexOffset: 3, IndexCount: 3, MaterialID: 1},
			},
			Materials: []resources.Material{{Name: "brass", Illum: 1}, {Name: "glass", Illum: 2}},
		},
	)

	b := systems.NewLevelBuilder()
	b.AddInstance("cube", math.NewMat4Translation(math.NewVec3(1, 0, 0)))
	b.AddInstance("lamp", math.NewMat4Translation(math.NewVec3(2, 0, 0)))
	b.AddInstance("cube", math.NewMat4Translation(math.NewVec3(3, 0, 0)))
	b.Assemble(loader)
	return b.Finalize()
}

func TestDrawList(t *testing.T) {
	commands, constants := DrawList(testLevel(t))

	type draw struct {
		indexCount, instanceCount, firstIndex uint32
		vertexOffset                          int32
		constants                             PushConstants
	}
	want := []draw{
		{3, 2, 0, 0, PushConstants{TransformOffset: 0, MaterialIndex: 0}},
		{3, 1, 3, 3, PushConstants{TransformOffset: 2, MaterialIndex: 1}},
		{3, 1, 6, 3, PushConstants{TransformOffset: 2, MaterialIndex: 2}},
	}
	if len(commands) != len(want) || len(constants) != len(want) {
		t.Fatalf("draw count mismatch\nhave %d commands, %d constants\nwant %d", len(commands), len(constants), len(want))
	}
	for i, w := range want {
		c := commands[i]
		have := draw{c.IndexCount, c.InstanceCount, c.FirstIndex, c.VertexOffset, constants[i]}
		if have != w {
			t.Fatalf("draw %d mismatch\nhave %+v\nwant %+v", i, have, w)
		}
		if c.FirstInstance != 0 {
			t.Fatalf("draw %d first instance mismatch\nhave %d\nwant 0", i, c.FirstInstance)
		}
	}
}

func TestPushConstantRange(t *testing.T) {
	r := PushConstantRange()
	if r.Offset != 0 || r.Size != PushConstantsSize {
		t.Fatalf("range mismatch\nhave offset %d size %d\nwant offset 0 size %d", r.Offset, r.Size, PushConstantsSize)
	}
	if r.StageFlags&vk.ShaderStageFlags(vk.ShaderStageVertexBit) == 0 {
		t.Fatalf("push constants not visible to the vertex stage")
	}
}

func TestFrameDataBuffers(t *testing.T) {
	lvl := testLevel(t)
	fd, err := NewFrameData(lvl)
	if err != nil {
		t.Fatalf("NewFrameData: %v", err)
	}
	if fd.LevelID != lvl.ID {
		t.Fatalf("level id mismatch\nhave %s\nwant %s", fd.LevelID, lvl.ID)
	}

	sizes := []struct {
		name string
		rb   RenderBuffer
		want uint64
	}{
		{"vertices", fd.Vertices, 7 * math.Vertex3DSize},
		{"indices", fd.Indices, 9 * IndexSize},
		{"transforms", fd.Transforms, 3 * math.Mat4Size},
		{"materials", fd.Materials, 3 * GPUMaterialSize},
		{"indirect", fd.Indirect, 3 * IndirectRecordSize},
	}
	for _, s := range sizes {
		if have := s.rb.TotalSize(); have != s.want {
			t.Fatalf("%s size mismatch\nhave %d\nwant %d", s.name, have, s.want)
		}
		if uint64(s.rb.Stride)*uint64(s.rb.Count) != s.want {
			t.Fatalf("%s stride*count mismatch\nhave %d*%d\nwant %d", s.name, s.rb.Stride, s.rb.Count, s.want)
		}
	}

	le := binary.LittleEndian
	// First lamp vertex follows the three cube vertices.
	if x := gomath.Float32frombits(le.Uint32(fd.Vertices.Data[3*math.Vertex3DSize:])); x != 100 {
		t.Fatalf("vertex 3 x mismatch\nhave %v\nwant 100", x)
	}
	// Lamp indices stay local to its vertex run.
	if idx := le.Uint32(fd.Indices.Data[4*IndexSize:]); idx != 1 {
		t.Fatalf("index 4 mismatch\nhave %d\nwant 1", idx)
	}
	// Third transform is the lamp's, translation in the fourth row.
	if x := gomath.Float32frombits(le.Uint32(fd.Transforms.Data[2*math.Mat4Size+12*4:])); x != 2 {
		t.Fatalf("transform 2 translation mismatch\nhave %v\nwant 2", x)
	}
	// Illum is the last field of each material block.
	for i, want := range []uint32{7, 1, 2} {
		if illum := le.Uint32(fd.Materials.Data[i*GPUMaterialSize+GPUMaterialSize-4:]); illum != want {
			t.Fatalf("material %d illum mismatch\nhave %d\nwant %d", i, illum, want)
		}
	}
	record := fd.Indirect.Data[2*IndirectRecordSize:]
	for i, want := range []uint32{3, 1, 6, 3, 0} {
		if have := le.Uint32(record[i*4:]); have != want {
			t.Fatalf("indirect record 2 field %d mismatch\nhave %d\nwant %d", i, have, want)
		}
	}
}

func TestFrameDataEmptyLevel(t *testing.T) {
	b := systems.NewLevelBuilder()
	fd, err := NewFrameData(b.Finalize())
	if err != nil {
		t.Fatalf("NewFrameData: %v", err)
	}
	if len(fd.Commands) != 0 || fd.Vertices.TotalSize() != 0 || fd.Indirect.Count != 0 {
		t.Fatalf("empty level produced draws\nhave %+v", fd)
	}
	if _, err := NewFrameData(nil); err == nil {
		t.Fatalf("expected an error for a nil level")
	}
}

type recordedDraw struct {
	constants                             PushConstants
	indexCount, instanceCount, firstIndex uint32
	vertexOffset                          int32
}

type fakeRecorder struct {
	pending PushConstants
	draws   []recordedDraw
}

func (r *fakeRecorder) PushConstants(stageFlags vk.ShaderStageFlags, offset uint32, values PushConstants) {
	r.pending = values
}

func (r *fakeRecorder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	r.draws = append(r.draws, recordedDraw{r.pending, indexCount, instanceCount, firstIndex, vertexOffset})
}

func TestFrameDataRecord(t *testing.T) {
	fd, err := NewFrameData(testLevel(t))
	if err != nil {
		t.Fatalf("NewFrameData: %v", err)
	}
	rec := &fakeRecorder{}
	fd.Record(rec)

	if len(rec.draws) != 3 {
		t.Fatalf("draw count mismatch\nhave %d\nwant 3", len(rec.draws))
	}
	last := rec.draws[2]
	want := recordedDraw{PushConstants{TransformOffset: 2, MaterialIndex: 2}, 3, 1, 6, 3}
	if last != want {
		t.Fatalf("last draw mismatch\nhave %+v\nwant %+v", last, want)
	}
}
