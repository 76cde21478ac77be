package core

import (
	"errors"
)

var (
	ErrMeshNotFound     = errors.New("mesh asset not found")
	ErrMalformedMesh    = errors.New("mesh asset is malformed")
	ErrSceneUnavailable = errors.New("scene description could not be read")
	ErrUnknownAssetType = errors.New("no loader registered for asset type")
	ErrDuplicateKey     = errors.New("drawable key already in use")
	// ErrInvariant marks a broken registry contract. It is only ever raised
	// through a panic.
	ErrInvariant = errors.New("level registry invariant violated")
)
