package world

// ChunkCoord addresses a chunk in the sparse chunk map.
type ChunkCoord struct {
	X, Y, Z int
}

// Neighbor directions. Opposites pair up so that Opposite(d) == d^1.
const (
	DirFront  = 0 // +Z
	DirBack   = 1 // -Z
	DirRight  = 2 // +X
	DirLeft   = 3 // -X
	DirTop    = 4 // +Y
	DirBottom = 5 // -Y
)

// Opposite returns the direction pointing back at the caller.
func Opposite(dir int) int {
	return dir ^ 1
}

// dirOffsets maps a direction to its chunk-coordinate delta.
var dirOffsets = [6][3]int{
	{0, 0, 1},  // front
	{0, 0, -1}, // back
	{1, 0, 0},  // right
	{-1, 0, 0}, // left
	{0, 1, 0},  // top
	{0, -1, 0}, // bottom
}

// floorDiv divides rounding toward negative infinity so chunk coordinates are
// continuous across zero.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod returns the non-negative remainder matching floorDiv.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

// WorldToChunk converts world-space block coordinates to the owning chunk.
func WorldToChunk(wx, wy, wz int) ChunkCoord {
	return ChunkCoord{floorDiv(wx, Size), floorDiv(wy, Height), floorDiv(wz, Size)}
}

// WorldToLocal converts world-space block coordinates to chunk-local ones.
func WorldToLocal(wx, wy, wz int) (int, int, int) {
	return floorMod(wx, Size), floorMod(wy, Height), floorMod(wz, Size)
}
