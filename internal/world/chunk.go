package world

import (
	"sync/atomic"

	"voxcraft/internal/noise"
)

const (
	// Size is the chunk edge length along X and Z.
	Size = 16
	// Height is the chunk edge length along Y.
	Height = 64
	// Volume is the number of voxels in one chunk.
	Volume = Size * Height * Size

	extendedSize = Size + 2
)

// Chunk is a dense 16x64x16 block of voxels. The main thread owns all voxel
// writes; mesh workers only ever read, which is what the meshing flag
// brokered by World guarantees.
type Chunk struct {
	Position ChunkCoord

	voxels  [Volume]VoxelID
	version uint64

	generationSeed uint32
	generated      bool
	dirty          bool

	// meshDirty and meshing cross the worker boundary.
	meshDirty atomic.Bool
	meshing   atomic.Bool

	// neighbors are non-owning and may be swapped while workers read them.
	neighbors [6]atomic.Pointer[Chunk]

	columnHeights   [Size * Size]int
	extendedHeights [extendedSize * extendedSize]int
	hasHeights      bool

	gen *noise.Noise
}

// NewChunk returns an empty, ungenerated chunk at the given coordinate.
func NewChunk(pos ChunkCoord) *Chunk {
	return &Chunk{Position: pos}
}

func voxelIndex(x, y, z int) int {
	return (x*Height+y)*Size + z
}

func columnIndex(x, z int) int {
	return x*Size + z
}

func extendedIndex(x, z int) int {
	return (x+1)*extendedSize + (z + 1)
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Height && z >= 0 && z < Size
}

// WorldOrigin returns the world-space block coordinate of the chunk's
// (0,0,0) corner.
func (c *Chunk) WorldOrigin() (int, int, int) {
	return c.Position.X * Size, c.Position.Y * Height, c.Position.Z * Size
}

// Get returns the voxel at chunk-local coordinates, Air when out of bounds.
func (c *Chunk) Get(x, y, z int) VoxelID {
	if !inBounds(x, y, z) {
		return Air
	}
	return c.voxels[voxelIndex(x, y, z)]
}

// Set writes a voxel, bumping the version and marking this chunk (and any
// adjacent neighbor when the cell sits on a boundary) for remeshing.
// Writes outside the chunk or that do not change the cell are ignored.
func (c *Chunk) Set(x, y, z int, v VoxelID) {
	if !inBounds(x, y, z) {
		return
	}
	idx := voxelIndex(x, y, z)
	if c.voxels[idx] == v {
		return
	}
	c.voxels[idx] = v
	c.version++
	c.dirty = true
	c.meshDirty.Store(true)

	if x == 0 {
		c.markNeighborMeshDirty(DirLeft)
	}
	if x == Size-1 {
		c.markNeighborMeshDirty(DirRight)
	}
	if y == 0 {
		c.markNeighborMeshDirty(DirBottom)
	}
	if y == Height-1 {
		c.markNeighborMeshDirty(DirTop)
	}
	if z == 0 {
		c.markNeighborMeshDirty(DirBack)
	}
	if z == Size-1 {
		c.markNeighborMeshDirty(DirFront)
	}
}

func (c *Chunk) markNeighborMeshDirty(dir int) {
	if n := c.neighbors[dir].Load(); n != nil {
		n.meshDirty.Store(true)
	}
}

// GetSafe resolves coordinates up to one cell outside the chunk: first from a
// loaded neighbor, then predicted from the cached terrain heights. Anything
// further out reads as Stone so the mesher never emits faces there.
func (c *Chunk) GetSafe(x, y, z int) VoxelID {
	if inBounds(x, y, z) {
		return c.voxels[voxelIndex(x, y, z)]
	}
	if x < -1 || x > Size || y < -1 || y > Height || z < -1 || z > Size {
		return Stone
	}

	var neighbor *Chunk
	nx, ny, nz := x, y, z
	switch {
	case x == -1:
		neighbor = c.neighbors[DirLeft].Load()
		nx = Size - 1
	case x == Size:
		neighbor = c.neighbors[DirRight].Load()
		nx = 0
	case y == -1:
		neighbor = c.neighbors[DirBottom].Load()
		ny = Height - 1
	case y == Height:
		neighbor = c.neighbors[DirTop].Load()
		ny = 0
	case z == -1:
		neighbor = c.neighbors[DirBack].Load()
		nz = Size - 1
	case z == Size:
		neighbor = c.neighbors[DirFront].Load()
		nz = 0
	}

	if neighbor != nil && inBounds(nx, ny, nz) {
		return neighbor.Get(nx, ny, nz)
	}
	return c.predictVoxel(x, y, z)
}

// predictVoxel regenerates the terrain block an unloaded neighbor would hold,
// using the extended height cache that covers the one-cell apron.
func (c *Chunk) predictVoxel(x, y, z int) VoxelID {
	if inBounds(x, y, z) {
		return c.voxels[voxelIndex(x, y, z)]
	}
	h := c.heightAt(x, z)
	_, wy0, _ := c.WorldOrigin()
	return BlockFor(h, wy0+y)
}

// heightAt reads the extended cache for x,z in [-1, Size] and falls back to a
// live noise evaluation outside it.
func (c *Chunk) heightAt(x, z int) int {
	if c.hasHeights && x >= -1 && x <= Size && z >= -1 && z <= Size {
		return c.extendedHeights[extendedIndex(x, z)]
	}
	if c.gen == nil {
		return Height
	}
	wx0, _, wz0 := c.WorldOrigin()
	return HeightAt(c.gen, wx0+x, wz0+z)
}

// Generate fills the chunk from the terrain rule. Calling it again on a
// generated chunk is a no-op, so player edits survive streaming churn.
func (c *Chunk) Generate(seed uint32) {
	if c.generated {
		return
	}
	c.generationSeed = seed
	c.gen = noise.New(seed)

	wx0, wy0, wz0 := c.WorldOrigin()

	for x := -1; x <= Size; x++ {
		for z := -1; z <= Size; z++ {
			c.extendedHeights[extendedIndex(x, z)] = HeightAt(c.gen, wx0+x, wz0+z)
		}
	}
	c.hasHeights = true

	for x := 0; x < Size; x++ {
		for z := 0; z < Size; z++ {
			h := c.extendedHeights[extendedIndex(x, z)]
			c.columnHeights[columnIndex(x, z)] = h
			for y := 0; y < Height; y++ {
				c.voxels[voxelIndex(x, y, z)] = BlockFor(h, wy0+y)
			}
		}
	}

	c.generated = true
	c.dirty = false
	c.meshDirty.Store(true)
	c.meshing.Store(false)
	c.version++
}

// SetNeighbor installs (or clears, with nil) the adjacency pointer for dir.
func (c *Chunk) SetNeighbor(dir int, n *Chunk) {
	if dir < 0 || dir >= 6 {
		return
	}
	c.neighbors[dir].Store(n)
}

// Neighbor returns the chunk adjacent in dir, nil when unloaded.
func (c *Chunk) Neighbor(dir int) *Chunk {
	if dir < 0 || dir >= 6 {
		return nil
	}
	return c.neighbors[dir].Load()
}

// ColumnHeight returns the generated terrain height for a local column.
func (c *Chunk) ColumnHeight(x, z int) int {
	if x < 0 || x >= Size || z < 0 || z >= Size {
		return 0
	}
	return c.columnHeights[columnIndex(x, z)]
}

// Version returns the voxel-content revision counter.
func (c *Chunk) Version() uint64 { return c.version }

// IsGenerated reports whether terrain has been filled in.
func (c *Chunk) IsGenerated() bool { return c.generated }

// IsDirty reports whether the chunk was edited since generation.
func (c *Chunk) IsDirty() bool { return c.dirty }

// GenerationSeed returns the seed the chunk was generated from.
func (c *Chunk) GenerationSeed() uint32 { return c.generationSeed }

// NeedsMeshRebuild reports whether the current mesh is stale.
func (c *Chunk) NeedsMeshRebuild() bool { return c.meshDirty.Load() }

// MarkMeshDirty flags the chunk for remeshing.
func (c *Chunk) MarkMeshDirty() { c.meshDirty.Store(true) }

// ClearMeshDirty is called by a mesh worker once a build completes.
func (c *Chunk) ClearMeshDirty() { c.meshDirty.Store(false) }

// IsMeshing reports whether a worker currently holds the chunk for meshing.
func (c *Chunk) IsMeshing() bool { return c.meshing.Load() }

// SetMeshing hands the chunk to a mesh worker (true) or releases it (false).
func (c *Chunk) SetMeshing(v bool) { c.meshing.Store(v) }
