package loaders

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/levelbatch/engine/core"
	"github.com/spaghettifunk/levelbatch/engine/math"
	"github.com/spaghettifunk/levelbatch/engine/resources"
)

// YAMLMeshLoader decodes the human-editable mesh format used for fixtures
// and hand-built props:
//
//	vertices:
//	  - {pos: [0, 0, 0], uvw: [0, 0, 0], nrm: [0, 0, -1]}
//	indices: [0, 1, 2]
//	submeshes:
//	  - {index_offset: 0, index_count: 3, material: 0}
//	materials:
//	  - {name: red, kd: [1, 0, 0]}
//
// Without submeshes the whole index array is one submesh using material 0.
// Without materials a single default material is used.
type YAMLMeshLoader struct{}

type yamlVertex struct {
	Pos [3]float32 `yaml:"pos"`
	UVW [3]float32 `yaml:"uvw"`
	Nrm [3]float32 `yaml:"nrm"`
}

type yamlSubmesh struct {
	IndexOffset uint32 `yaml:"index_offset"`
	IndexCount  uint32 `yaml:"index_count"`
	Material    uint32 `yaml:"material"`
}

type yamlMaterial struct {
	Name      string      `yaml:"name"`
	Kd        *[3]float32 `yaml:"kd"`
	D         *float32    `yaml:"d"`
	Ks        *[3]float32 `yaml:"ks"`
	Ns        *float32    `yaml:"ns"`
	Ka        *[3]float32 `yaml:"ka"`
	Sharpness *float32    `yaml:"sharpness"`
	Tf        *[3]float32 `yaml:"tf"`
	Ni        *float32    `yaml:"ni"`
	Ke        *[3]float32 `yaml:"ke"`
	Illum     *int32      `yaml:"illum"`
}

type yamlMesh struct {
	Vertices  []yamlVertex   `yaml:"vertices"`
	Indices   []uint32       `yaml:"indices"`
	Submeshes []yamlSubmesh  `yaml:"submeshes"`
	Materials []yamlMaterial `yaml:"materials"`
}

// DefaultMaterial is what a mesh without a material table is drawn with.
func DefaultMaterial() resources.Material {
	return resources.Material{
		Name:      "default",
		Kd:        math.NewVec3(0.75, 0.75, 0.75),
		D:         1,
		Ks:        math.NewVec3(0.5, 0.5, 0.5),
		Ns:        100,
		Ka:        math.NewVec3Zero(),
		Sharpness: 60,
		Tf:        math.NewVec3One(),
		Ni:        1,
		Ke:        math.NewVec3Zero(),
		Illum:     2,
	}
}

func (yl *YAMLMeshLoader) Decode(name string, data []byte) (*resources.MeshAsset, error) {
	var ym yamlMesh
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("mesh '%s': %w: %v", name, core.ErrMalformedMesh, err)
	}

	mesh := &resources.MeshAsset{
		Name:     name,
		Vertices: make([]math.Vertex3D, len(ym.Vertices)),
		Indices:  ym.Indices,
	}
	for i, v := range ym.Vertices {
		mesh.Vertices[i] = math.Vertex3D{
			Position: vec3(v.Pos),
			Texcoord: vec3(v.UVW),
			Normal:   vec3(v.Nrm),
		}
	}

	if len(ym.Submeshes) == 0 {
		mesh.Submeshes = []resources.Submesh{{IndexOffset: 0, IndexCount: uint32(len(ym.Indices))}}
	}
	for _, s := range ym.Submeshes {
		mesh.Submeshes = append(mesh.Submeshes, resources.Submesh{
			IndexOffset: s.IndexOffset,
			IndexCount:  s.IndexCount,
			MaterialID:  s.Material,
		})
	}

	if len(ym.Materials) == 0 {
		mesh.Materials = []resources.Material{DefaultMaterial()}
	}
	for _, m := range ym.Materials {
		mesh.Materials = append(mesh.Materials, m.toMaterial())
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// toMaterial fills unspecified attributes from DefaultMaterial.
func (ym yamlMaterial) toMaterial() resources.Material {
	m := DefaultMaterial()
	if ym.Name != "" {
		m.Name = ym.Name
	}
	setVec3(&m.Kd, ym.Kd)
	setVec3(&m.Ks, ym.Ks)
	setVec3(&m.Ka, ym.Ka)
	setVec3(&m.Tf, ym.Tf)
	setVec3(&m.Ke, ym.Ke)
	if ym.D != nil {
		m.D = math.Clamp(*ym.D, 0, 1)
	}
	if ym.Ns != nil {
		m.Ns = math.Clamp(*ym.Ns, 0, 1000)
	}
	if ym.Sharpness != nil {
		m.Sharpness = *ym.Sharpness
	}
	if ym.Ni != nil {
		m.Ni = *ym.Ni
	}
	if ym.Illum != nil {
		m.Illum = *ym.Illum
	}
	return m
}

func vec3(v [3]float32) math.Vec3 {
	return math.NewVec3(v[0], v[1], v[2])
}

func setVec3(dst *math.Vec3, src *[3]float32) {
	if src != nil {
		*dst = vec3(*src)
	}
}
