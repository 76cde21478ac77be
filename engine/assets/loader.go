package assets

import "github.com/spaghettifunk/levelbatch/engine/resources"

// MeshDecoder turns the raw bytes of a mesh asset file into a MeshAsset.
// Decoders are registered per file extension.
type MeshDecoder interface {
	Decode(name string, data []byte) (*resources.MeshAsset, error)
}
