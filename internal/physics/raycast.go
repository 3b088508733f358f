package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxcraft/internal/profiling"
	"voxcraft/internal/world"
)

const (
	// MaxReachDistance is how far block edits reach, in world units.
	MaxReachDistance = 10.0
	// rayStep is the fixed sampling interval along the ray.
	rayStep = 0.05
)

// RaycastResult reports the first non-air voxel along a ray and the last air
// cell crossed before it, which is where placements go.
type RaycastResult struct {
	Hit         bool
	HitPosition [3]int
	LastAir     [3]int
	Distance    float32
}

// Raycast samples the world along direction from start in rayStep increments
// up to MaxReachDistance.
func Raycast(w *world.World, start, direction mgl32.Vec3) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	var result RaycastResult
	for t := float32(0); t < MaxReachDistance; t += rayStep {
		pos := start.Add(direction.Mul(t))
		bx := int(math.Floor(float64(pos.X())))
		by := int(math.Floor(float64(pos.Y())))
		bz := int(math.Floor(float64(pos.Z())))

		if w.Voxel(bx, by, bz) != world.Air {
			result.Hit = true
			result.HitPosition = [3]int{bx, by, bz}
			result.Distance = t
			return result
		}
		result.LastAir = [3]int{bx, by, bz}
	}
	return result
}

// RemoveBlock clears the first voxel the view ray hits. It returns the hit
// result so callers can log the edit.
func RemoveBlock(w *world.World, start, direction mgl32.Vec3) RaycastResult {
	res := Raycast(w, start, direction)
	if res.Hit {
		w.SetVoxel(res.HitPosition[0], res.HitPosition[1], res.HitPosition[2], world.Air)
	}
	return res
}

// PlaceBlock puts v into the last air cell before the first hit voxel.
func PlaceBlock(w *world.World, start, direction mgl32.Vec3, v world.VoxelID) RaycastResult {
	res := Raycast(w, start, direction)
	if res.Hit {
		w.SetVoxel(res.LastAir[0], res.LastAir[1], res.LastAir[2], v)
	}
	return res
}
