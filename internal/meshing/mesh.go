package meshing

import "voxcraft/internal/world"

// VertexFloats is the per-vertex layout width: position(3), normal(3),
// texcoord(2), texture id(1), debug flag(1).
const VertexFloats = 10

// Mesh is the CPU-side geometry for one chunk. Build fills it on a worker;
// the GPU upload happens elsewhere on the main thread.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// Empty reports whether the mesh has no geometry.
func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / VertexFloats }

// FaceCount returns the number of emitted quads.
func (m *Mesh) FaceCount() int { return len(m.Indices) / 6 }

// Per-face corner offsets relative to the cube center, wound CCW when seen
// from outside the cube.
var faceVertices = [6][4][3]float32{
	{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},     // front +Z
	{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}, // back -Z
	{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}},     // right +X
	{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}, // left -X
	{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}},     // top +Y
	{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}, // bottom -Y
}

var faceNormals = [6][3]float32{
	{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0},
}

var faceTexCoords = [4][2]float32{
	{0, 0}, {1, 0}, {1, 1}, {0, 1},
}

var faceOffsets = [6][3]int{
	{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0},
}

// Build walks every voxel and emits the visible faces. It only reads from
// the chunk and its neighbors, so it is safe on a worker while the chunk's
// meshing flag is held.
func Build(c *world.Chunk) *Mesh {
	m := &Mesh{}

	solid := 0
	for x := 0; x < world.Size; x++ {
		for y := 0; y < world.Height; y++ {
			for z := 0; z < world.Size; z++ {
				if c.Get(x, y, z) != world.Air {
					solid++
				}
			}
		}
	}
	estimate := solid * 24
	if estimate > world.Volume/4 {
		estimate = world.Volume / 4
	}
	m.Vertices = make([]float32, 0, estimate*VertexFloats)
	m.Indices = make([]uint32, 0, estimate*3/2)

	for x := 0; x < world.Size; x++ {
		for y := 0; y < world.Height; y++ {
			for z := 0; z < world.Size; z++ {
				voxel := c.Get(x, y, z)
				if voxel == world.Air {
					continue
				}
				for dir := 0; dir < 6; dir++ {
					if shouldRenderFace(c, x, y, z, dir, voxel) {
						m.addFace(x, y, z, dir, voxel)
					}
				}
			}
		}
	}
	return m
}

// shouldRenderFace applies the per-type visibility rules. Water faces only
// survive against air, which trims overdraw between water cells and against
// the basin walls.
func shouldRenderFace(c *world.Chunk, x, y, z, dir int, voxel world.VoxelID) bool {
	off := faceOffsets[dir]
	neighbor := c.GetSafe(x+off[0], y+off[1], z+off[2])

	if voxel == world.Water {
		return neighbor == world.Air
	}
	if !world.IsTransparent(voxel) {
		return world.IsTransparent(neighbor)
	}
	// Transparent non-water: drop faces between cells of the same type.
	return voxel != neighbor
}

func (m *Mesh) addFace(x, y, z, dir int, voxel world.VoxelID) {
	base := uint32(len(m.Vertices) / VertexFloats)

	info := world.Info(voxel)
	var texID float32
	switch dir {
	case world.DirTop:
		texID = info.TextureTop
	case world.DirBottom:
		texID = info.TextureBottom
	default:
		texID = info.TextureSides
	}

	normal := faceNormals[dir]
	for corner := 0; corner < 4; corner++ {
		v := faceVertices[dir][corner]
		uv := faceTexCoords[corner]
		m.Vertices = append(m.Vertices,
			float32(x)+v[0], float32(y)+v[1], float32(z)+v[2],
			normal[0], normal[1], normal[2],
			uv[0], uv[1],
			texID, 0,
		)
	}
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+3, base,
	)
}
