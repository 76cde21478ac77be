package loaders

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/levelbatch/engine/math"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

// LevelFile reads a TOML level manifest:
//
//	[[instance]]
//	mesh = "Bench.h2b"
//	transform = [1.0, 0.0, 0.0, 0.0,  0.0, 1.0, 0.0, 0.0,  0.0, 0.0, 1.0, 0.0,  4.0, 0.0, -2.0, 1.0]
//
//	[[instance]]
//	mesh = "Lamp"
//	position = [0.0, 0.0, 3.0]
//	scale = [2.0, 2.0, 2.0]
//
// transform is a row-major 4x4 matrix. When it is absent the matrix is built
// from the optional position and scale. Mesh names lose everything from the
// first '.' on, so file names can be used directly.
type LevelFile struct {
	Path string
}

type levelManifest struct {
	Instances []levelInstance `toml:"instance"`
}

type levelInstance struct {
	Mesh      string    `toml:"mesh"`
	Transform []float32 `toml:"transform"`
	Position  []float32 `toml:"position"`
	Scale     []float32 `toml:"scale"`
}

func (lf LevelFile) ReadScene() ([]resources.SceneInstance, error) {
	data, err := os.ReadFile(lf.Path)
	if err != nil {
		return nil, err
	}
	return ParseLevel(data)
}

// ParseLevel decodes a level manifest into its ordered instance list.
func ParseLevel(data []byte) ([]resources.SceneInstance, error) {
	var manifest levelManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}

	out := make([]resources.SceneInstance, 0, len(manifest.Instances))
	for i, inst := range manifest.Instances {
		name := MeshName(inst.Mesh)
		if name == "" {
			return nil, fmt.Errorf("instance %d: mesh name is required", i)
		}
		transform, err := inst.matrix()
		if err != nil {
			return nil, fmt.Errorf("instance %d (%s): %w", i, name, err)
		}
		out = append(out, resources.SceneInstance{MeshName: name, Transform: transform})
	}
	return out, nil
}

// MeshName strips surrounding whitespace and any file extension.
func MeshName(raw string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(raw), ".")
	return name
}

func (li levelInstance) matrix() (math.Mat4, error) {
	if li.Transform != nil {
		if len(li.Transform) != 16 {
			return math.Mat4{}, fmt.Errorf("transform needs 16 values, got %d", len(li.Transform))
		}
		var m math.Mat4
		copy(m.Data[:], li.Transform)
		return m, nil
	}

	position := math.NewVec3Zero()
	scale := math.NewVec3One()
	if li.Position != nil {
		if len(li.Position) != 3 {
			return math.Mat4{}, fmt.Errorf("position needs 3 values, got %d", len(li.Position))
		}
		position = math.NewVec3(li.Position[0], li.Position[1], li.Position[2])
	}
	if li.Scale != nil {
		if len(li.Scale) != 3 {
			return math.Mat4{}, fmt.Errorf("scale needs 3 values, got %d", len(li.Scale))
		}
		scale = math.NewVec3(li.Scale[0], li.Scale[1], li.Scale[2])
	}
	return math.NewMat4Scale(scale).Mul(math.NewMat4Translation(position)), nil
}
