package systems

import (
	"fmt"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

// AddMesh folds the asset of a discovered mesh into the combined buffers.
//
// A single-submesh asset fills the mesh's drawable in place. An asset with N
// submeshes splits it into N drawables keyed "<mesh>_submeshK" that share the
// mesh's vertex run and instance range but each own an index run and a
// material. Index values are kept local to the vertex run; VertexOffset is the
// base vertex.
//
// A malformed asset marks the mesh as failed and is reported through the
// returned error and Warnings; the buffers are left untouched.
func (b *LevelBuilder) AddMesh(meshName string, asset *resources.MeshAsset) error {
	base := b.assemblyTarget(meshName)

	if asset == nil {
		err := fmt.Errorf("mesh '%s': loader returned no asset: %w", meshName, core.ErrMalformedMesh)
		b.Fail(meshName, err)
		return err
	}
	if err := asset.Validate(); err != nil {
		b.Fail(meshName, err)
		return err
	}

	if len(asset.Submeshes) == 1 {
		b.resolve(base, asset, 0)
		return nil
	}

	for k := range asset.Submeshes {
		if other, ok := b.byKey[submeshKey(meshName, k+1)]; ok {
			err := fmt.Errorf("split of '%s' collides with existing drawable '%s': %w", meshName, other.Key, core.ErrDuplicateKey)
			b.Fail(meshName, err)
			return err
		}
	}

	vertexOffset := uint32(len(b.vertices))
	b.vertices = append(b.vertices, asset.Vertices...)

	parts := make([]*Drawable, len(asset.Submeshes))
	for k, sm := range asset.Submeshes {
		part := &Drawable{
			Key:             submeshKey(meshName, k+1),
			Mesh:            meshName,
			Submesh:         uint32(k),
			IndexCount:      sm.IndexCount,
			FirstIndex:      uint32(len(b.indices)),
			VertexOffset:    vertexOffset,
			MaterialIndex:   uint32(len(b.materials)),
			TransformOffset: base.TransformOffset,
			InstanceCount:   base.InstanceCount,
			State:           DrawableResolved,
		}
		b.indices = append(b.indices, asset.SubmeshIndices(k)...)
		b.materials = append(b.materials, asset.Materials[sm.MaterialID])
		parts[k] = part
		b.byKey[part.Key] = part
	}
	b.parts[meshName] = parts
	base.State = DrawableSplit

	core.LogDebug("[%s] mesh '%s' split into %d drawables by material", b.id.Short(), meshName, len(parts))
	return nil
}

// resolve writes submesh sm of asset into base without splitting it.
func (b *LevelBuilder) resolve(base *Drawable, asset *resources.MeshAsset, sm int) {
	submesh := asset.Submeshes[sm]

	base.IndexCount = submesh.IndexCount
	base.FirstIndex = uint32(len(b.indices))
	base.VertexOffset = uint32(len(b.vertices))
	base.MaterialIndex = uint32(len(b.materials))
	base.State = DrawableResolved

	b.vertices = append(b.vertices, asset.Vertices...)
	b.indices = append(b.indices, asset.SubmeshIndices(sm)...)
	b.materials = append(b.materials, asset.Materials[submesh.MaterialID])
}

// Fail marks a discovered mesh as unresolvable. Its drawable is left out of
// the draw set; its transform run stays in place so no other offset moves.
func (b *LevelBuilder) Fail(meshName string, err error) {
	base := b.assemblyTarget(meshName)
	base.State = DrawableFailed
	b.warnings = append(b.warnings, Warning{Mesh: meshName, Err: err})
	core.LogWarn("[%s] skipping mesh '%s': %v", b.id.Short(), meshName, err)
}

// assemblyTarget seals the instance list if needed and returns the discovered
// drawable for meshName.
func (b *LevelBuilder) assemblyTarget(meshName string) *Drawable {
	if b.phase == phaseFinalized {
		violation("mesh '%s' assembled after the level was finalized", meshName)
	}
	b.seal()

	d, ok := b.byKey[meshName]
	if !ok || d.Key != d.Mesh {
		violation("mesh '%s' was never added as an instance", meshName)
	}
	if d.State != DrawableDiscovered {
		violation("mesh '%s' assembled twice (state %s)", meshName, d.State)
	}
	return d
}

// Assemble resolves every discovered mesh through loader, in discovery
// order. Load errors are recovered per mesh.
func (b *LevelBuilder) Assemble(loader resources.MeshLoader) {
	for _, name := range b.MeshNames() {
		asset, err := loader.LoadMesh(name)
		if err != nil {
			b.Fail(name, err)
			continue
		}
		_ = b.AddMesh(name, asset)
	}
}
