package systems

import (
	"fmt"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/math"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

type buildPhase uint8

const (
	phaseAccumulating buildPhase = iota
	phaseAssembling
	phaseFinalized
)

// Warning is a recovered, per-mesh problem found while building a level.
type Warning struct {
	Mesh string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Mesh, w.Err)
}

// LevelBuilder owns the drawable registry and the four combined buffers
// while a level is being built. Use it in order: AddInstance for every scene
// entry, then AddMesh (or Fail) for every name returned by MeshNames, then
// Finalize. A builder is single use and not safe for concurrent use.
type LevelBuilder struct {
	id    core.LoadID
	phase buildPhase

	// One drawable per scene mesh name, in first-seen order.
	bases []*Drawable
	// Every key handed out so far, bases and split parts alike.
	byKey map[string]*Drawable
	// Per-mesh transform runs. Flushed into transforms when the
	// accumulation phase is sealed.
	pending map[string][]math.Mat4
	// Drawables created by splitting a mesh, keyed by mesh name.
	parts map[string][]*Drawable

	vertices   []math.Vertex3D
	indices    []uint32
	transforms []math.Mat4
	materials  []resources.Material

	warnings []Warning
}

func NewLevelBuilder() *LevelBuilder {
	return &LevelBuilder{
		id:      core.NewLoadID(),
		phase:   phaseAccumulating,
		byKey:   make(map[string]*Drawable),
		pending: make(map[string][]math.Mat4),
		parts:   make(map[string][]*Drawable),
	}
}

func (b *LevelBuilder) ID() core.LoadID {
	return b.id
}

// Drawable returns the registry entry for key, which may be a mesh name or a
// split submesh key.
func (b *LevelBuilder) Drawable(key string) (*Drawable, bool) {
	d, ok := b.byKey[key]
	return d, ok
}

func (b *LevelBuilder) Warnings() []Warning {
	return b.warnings
}

// violation aborts on a broken registry contract.
func violation(format string, args ...interface{}) {
	panic(fmt.Errorf(format+": %w", append(args, core.ErrInvariant)...))
}

// checkInvariants verifies offset soundness and that no two meshes share
// instance transforms. Only meaningful once accumulation is sealed.
func (b *LevelBuilder) checkInvariants() {
	var transformEnd uint32
	for _, base := range b.bases {
		if base.TransformOffset != transformEnd {
			violation("mesh '%s' transforms start at %d, expected %d", base.Key, base.TransformOffset, transformEnd)
		}
		transformEnd = base.transformEnd()
		for _, d := range b.drawn(base) {
			if uint64(d.FirstIndex)+uint64(d.IndexCount) > uint64(len(b.indices)) {
				violation("drawable '%s' index range [%d, +%d) exceeds %d indices", d.Key, d.FirstIndex, d.IndexCount, len(b.indices))
			}
			if int(d.VertexOffset) > len(b.vertices) {
				violation("drawable '%s' vertex offset %d exceeds %d vertices", d.Key, d.VertexOffset, len(b.vertices))
			}
			if int(d.MaterialIndex) >= len(b.materials) {
				violation("drawable '%s' material %d exceeds %d materials", d.Key, d.MaterialIndex, len(b.materials))
			}
			if d.TransformOffset != base.TransformOffset || d.InstanceCount != base.InstanceCount {
				violation("drawable '%s' does not share the instance range of '%s'", d.Key, base.Key)
			}
		}
	}
	if int(transformEnd) != len(b.transforms) {
		violation("instance ranges cover %d transforms, buffer holds %d", transformEnd, len(b.transforms))
	}
}

// drawn returns the drawables that end up in the draw set for base.
func (b *LevelBuilder) drawn(base *Drawable) []*Drawable {
	switch base.State {
	case DrawableResolved:
		return []*Drawable{base}
	case DrawableSplit:
		return b.parts[base.Mesh]
	default:
		return nil
	}
}
