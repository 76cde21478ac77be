package systems

import (
	"github.com/spaghettifunk/levelbatch/engine/math"
)

// AddInstance records one placement of meshName. Instances of the same mesh
// are grouped regardless of the order they arrive in, so every mesh ends up
// with one contiguous transform run holding its transforms in call order.
// Names with no asset are accepted here and fail at assembly.
//
// Calling AddInstance once assembly has started is a contract violation.
func (b *LevelBuilder) AddInstance(meshName string, transform math.Mat4) {
	if b.phase != phaseAccumulating {
		violation("AddInstance('%s') after the instance list was sealed", meshName)
	}

	if d, ok := b.byKey[meshName]; ok {
		b.pending[meshName] = append(b.pending[meshName], transform)
		d.InstanceCount++
		return
	}

	d := &Drawable{
		Key:           meshName,
		Mesh:          meshName,
		InstanceCount: 1,
		State:         DrawableDiscovered,
	}
	b.bases = append(b.bases, d)
	b.byKey[meshName] = d
	b.pending[meshName] = []math.Mat4{transform}
}

// MeshNames returns the distinct mesh names in first-seen order. This is
// the order assets must be assembled in.
func (b *LevelBuilder) MeshNames() []string {
	names := make([]string, len(b.bases))
	for i, d := range b.bases {
		names[i] = d.Mesh
	}
	return names
}

// InstanceCount is the number of transforms added so far.
func (b *LevelBuilder) InstanceCount() int {
	if b.phase != phaseAccumulating {
		return len(b.transforms)
	}
	n := 0
	for _, run := range b.pending {
		n += len(run)
	}
	return n
}

// seal allocates the transform buffer: each mesh's run is appended whole, in
// discovery order, so runs never interleave.
func (b *LevelBuilder) seal() {
	if b.phase != phaseAccumulating {
		return
	}
	b.transforms = make([]math.Mat4, 0, b.InstanceCount())
	for _, d := range b.bases {
		run := b.pending[d.Mesh]
		if uint32(len(run)) != d.InstanceCount {
			violation("mesh '%s' counts %d instances but holds %d transforms", d.Key, d.InstanceCount, len(run))
		}
		d.TransformOffset = uint32(len(b.transforms))
		b.transforms = append(b.transforms, run...)
	}
	b.pending = nil
	b.phase = phaseAssembling
}
