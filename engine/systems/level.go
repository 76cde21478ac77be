package systems

import (
	"fmt"
	"slices"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/math"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

// Level is a finished, read-only level: the combined buffers plus one
// Drawable per draw call. Slices returned by its methods are shared and must
// not be modified.
type Level struct {
	ID      core.LoadID
	Metrics core.LevelMetrics

	drawables []Drawable
	byKey     map[string]int

	vertices   []math.Vertex3D
	indices    []uint32
	transforms []math.Mat4
	materials  []resources.Material

	failed   []string
	warnings []Warning
}

func newEmptyLevel(id core.LoadID) *Level {
	return &Level{
		ID:    id,
		byKey: make(map[string]int),
	}
}

// Finalize ends the build and returns the level. Meshes that were never
// assembled are reported as failed. The builder cannot be used afterwards.
func (b *LevelBuilder) Finalize() *Level {
	if b.phase == phaseFinalized {
		violation("level '%s' finalized twice", b.id)
	}
	b.seal()

	for _, base := range b.bases {
		if base.State == DrawableDiscovered {
			b.Fail(base.Mesh, fmt.Errorf("mesh '%s' was never assembled: %w", base.Mesh, core.ErrMeshNotFound))
		}
	}
	b.checkInvariants()
	b.phase = phaseFinalized

	lvl := newEmptyLevel(b.id)
	lvl.vertices = slices.Clone(b.vertices)
	lvl.indices = slices.Clone(b.indices)
	lvl.transforms = slices.Clone(b.transforms)
	lvl.materials = slices.Clone(b.materials)
	lvl.warnings = slices.Clone(b.warnings)

	for _, base := range b.bases {
		switch base.State {
		case DrawableSplit:
			lvl.Metrics.SplitMeshes++
		case DrawableFailed:
			lvl.failed = append(lvl.failed, base.Mesh)
		}
		for _, d := range b.drawn(base) {
			lvl.byKey[d.Key] = len(lvl.drawables)
			lvl.drawables = append(lvl.drawables, *d)
		}
	}

	lvl.Metrics.DrawCalls = uint32(len(lvl.drawables))
	lvl.Metrics.UniqueMeshes = uint32(len(b.bases))
	lvl.Metrics.FailedMeshes = uint32(len(lvl.failed))
	lvl.Metrics.Instances = uint32(len(lvl.transforms))
	lvl.Metrics.Vertices = uint32(len(lvl.vertices))
	lvl.Metrics.Indices = uint32(len(lvl.indices))
	lvl.Metrics.Materials = uint32(len(lvl.materials))
	return lvl
}

// Drawables returns the resolved drawables in draw order: meshes in
// discovery order, split meshes expanded in submesh order.
func (l *Level) Drawables() []Drawable {
	return l.drawables
}

func (l *Level) Drawable(key string) (Drawable, bool) {
	i, ok := l.byKey[key]
	if !ok {
		return Drawable{}, false
	}
	return l.drawables[i], true
}

// InstanceTransforms returns the transforms instancing d, in scene order.
func (l *Level) InstanceTransforms(d Drawable) []math.Mat4 {
	return l.transforms[d.TransformOffset : d.TransformOffset+d.InstanceCount]
}

// DrawIndices returns the index run of d. Values are relative to
// d.VertexOffset.
func (l *Level) DrawIndices(d Drawable) []uint32 {
	return l.indices[d.FirstIndex : d.FirstIndex+d.IndexCount]
}

func (l *Level) Vertices() []math.Vertex3D {
	return l.vertices
}

func (l *Level) Indices() []uint32 {
	return l.indices
}

func (l *Level) Transforms() []math.Mat4 {
	return l.transforms
}

func (l *Level) Materials() []resources.Material {
	return l.materials
}

// Failed lists the mesh names left out of the draw set.
func (l *Level) Failed() []string {
	return l.failed
}

func (l *Level) Warnings() []Warning {
	return l.warnings
}

func (l *Level) IsEmpty() bool {
	return len(l.drawables) == 0
}
