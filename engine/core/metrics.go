package core

import (
	"fmt"
	"time"
)

// LevelMetrics summarises the outcome of one level build.
type LevelMetrics struct {
	/** @brief The number of drawables handed to the renderer, i.e. draw calls. */
	DrawCalls uint32
	/** @brief The number of distinct mesh names found in the scene. */
	UniqueMeshes uint32
	/** @brief The number of meshes split by material. */
	SplitMeshes uint32
	/** @brief The number of meshes whose asset could not be resolved. */
	FailedMeshes uint32
	/** @brief The number of scene instances (transforms). */
	Instances uint32
	Vertices  uint32
	Indices   uint32
	Materials uint32
	/** @brief Wall time spent reading the scene and assembling buffers. */
	LoadTime time.Duration
}

// InstancesPerDraw is the average number of instances covered by one draw call.
func (m LevelMetrics) InstancesPerDraw() float64 {
	if m.DrawCalls == 0 {
		return 0
	}
	return float64(m.Instances) / float64(m.DrawCalls)
}

func (m LevelMetrics) String() string {
	return fmt.Sprintf("draws=%d meshes=%d split=%d failed=%d instances=%d (%.2f/draw) vertices=%d indices=%d materials=%d took=%s",
		m.DrawCalls, m.UniqueMeshes, m.SplitMeshes, m.FailedMeshes, m.Instances, m.InstancesPerDraw(),
		m.Vertices, m.Indices, m.Materials, m.LoadTime)
}
