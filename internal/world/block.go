package world

// VoxelID identifies a block type inside a chunk's voxel array.
type VoxelID uint16

const (
	Air VoxelID = iota
	Stone
	Dirt
	Grass
	Cobblestone
	Wood
	Leaves
	Sand
	Water
	Glass
	Iron
	voxelCount
)

// VoxelInfo describes the static properties of one block type. Texture fields
// are atlas tile indices; water's base frame sits at 10 with its remaining 31
// animation frames occupying 11..41, which is why glass and iron come after.
type VoxelInfo struct {
	Name          string
	Solid         bool
	Transparent   bool
	TextureTop    float32
	TextureBottom float32
	TextureSides  float32
}

var voxelInfo = [voxelCount]VoxelInfo{
	{"Air", false, true, 0, 0, 0},
	{"Stone", true, false, 1, 1, 1},
	{"Dirt", true, false, 2, 2, 2},
	{"Grass", true, false, 3, 2, 4},
	{"Cobblestone", true, false, 5, 5, 5},
	{"Wood", true, false, 6, 6, 7},
	{"Leaves", true, true, 8, 8, 8},
	{"Sand", true, false, 9, 9, 9},
	{"Water", false, true, 10, 10, 10},
	{"Glass", true, true, 42, 42, 42},
	{"Iron", true, false, 43, 43, 43},
}

// Info returns the block properties for v. Unknown IDs read as Air.
func Info(v VoxelID) VoxelInfo {
	if v >= voxelCount {
		return voxelInfo[Air]
	}
	return voxelInfo[v]
}

// IsSolid reports whether v occupies its cell with an opaque collision volume.
func IsSolid(v VoxelID) bool {
	return v < voxelCount && voxelInfo[v].Solid
}

// IsTransparent reports whether geometry behind v remains visible.
func IsTransparent(v VoxelID) bool {
	return v >= voxelCount || voxelInfo[v].Transparent
}

// Name returns the display name for v.
func Name(v VoxelID) string {
	if v >= voxelCount {
		return "Unknown"
	}
	return voxelInfo[v].Name
}
