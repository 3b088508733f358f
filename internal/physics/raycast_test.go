package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"voxcraft/internal/world"
)

// testWorld places blocks high above the generated terrain so rays only see
// what the test puts there.
func testWorld() *world.World {
	return world.New(1, 4, 7)
}

func TestRaycastHitsFirstBlock(t *testing.T) {
	w := testWorld()
	w.SetVoxel(4, 300, 10, world.Stone)
	w.SetVoxel(4, 300, 12, world.Stone) // behind the first, must not win

	res := Raycast(w, mgl32.Vec3{4.5, 300.5, 5.5}, mgl32.Vec3{0, 0, 1})
	require.True(t, res.Hit)
	require.Equal(t, [3]int{4, 300, 10}, res.HitPosition)
	require.Equal(t, [3]int{4, 300, 9}, res.LastAir)
	require.Greater(t, res.Distance, float32(4.0))
}

func TestRaycastMiss(t *testing.T) {
	w := testWorld()
	res := Raycast(w, mgl32.Vec3{4.5, 300.5, 5.5}, mgl32.Vec3{0, 1, 0})
	require.False(t, res.Hit)
}

func TestRaycastRespectsReach(t *testing.T) {
	w := testWorld()
	w.SetVoxel(4, 300, 17, world.Stone) // 11.5 units away, out of reach

	res := Raycast(w, mgl32.Vec3{4.5, 300.5, 5.5}, mgl32.Vec3{0, 0, 1})
	require.False(t, res.Hit)
}

func TestRemoveBlock(t *testing.T) {
	w := testWorld()
	w.SetVoxel(4, 300, 10, world.Stone)

	res := RemoveBlock(w, mgl32.Vec3{4.5, 300.5, 5.5}, mgl32.Vec3{0, 0, 1})
	require.True(t, res.Hit)
	require.Equal(t, world.Air, w.Voxel(4, 300, 10))
}

func TestPlaceBlock(t *testing.T) {
	w := testWorld()
	w.SetVoxel(4, 300, 10, world.Stone)

	res := PlaceBlock(w, mgl32.Vec3{4.5, 300.5, 5.5}, mgl32.Vec3{0, 0, 1}, world.Stone)
	require.True(t, res.Hit)
	require.Equal(t, world.Stone, w.Voxel(4, 300, 9))
	// The hit block itself is untouched.
	require.Equal(t, world.Stone, w.Voxel(4, 300, 10))
}

func TestPlaceBlockNoHitNoEdit(t *testing.T) {
	w := testWorld()
	before := w.ChunkCount()

	res := PlaceBlock(w, mgl32.Vec3{4.5, 300.5, 5.5}, mgl32.Vec3{0, 1, 0}, world.Stone)
	require.False(t, res.Hit)
	require.Equal(t, before, w.ChunkCount())
}
