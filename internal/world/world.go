package world

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// chunkLoadsPerFrame bounds generation work per Update call.
	chunkLoadsPerFrame = 2
	// unloadSlack is the hysteresis band between load and unload radius.
	unloadSlack = 1.5
)

type deferredEdit struct {
	wx, wy, wz int
	voxel      VoxelID
}

// World owns the sparse chunk map and the streaming policy around a moving
// center. All methods must be called from the main thread; mesh workers only
// see individual chunks handed to them through the meshing flag.
type World struct {
	seed           uint32
	renderDistance int
	maxChunkY      int

	chunks map[ChunkCoord]*Chunk

	lastCenter ChunkCoord
	hasCenter  bool
	loadQueue  []ChunkCoord

	deferred []deferredEdit
	evicted  []ChunkCoord
}

// New creates an empty world. renderDistance is the horizontal streaming
// radius in chunks; maxChunkY caps the vertical chunk band (inclusive).
func New(seed uint32, renderDistance, maxChunkY int) *World {
	return &World{
		seed:           seed,
		renderDistance: renderDistance,
		maxChunkY:      maxChunkY,
		chunks:         make(map[ChunkCoord]*Chunk),
	}
}

// Seed returns the world seed.
func (w *World) Seed() uint32 { return w.seed }

// RenderDistance returns the streaming radius in chunks.
func (w *World) RenderDistance() int { return w.renderDistance }

// SetRenderDistance changes the streaming radius and forces a rescan on the
// next Update.
func (w *World) SetRenderDistance(r int) {
	w.renderDistance = r
	w.hasCenter = false
}

// Chunk returns the loaded chunk at coord, nil otherwise.
func (w *World) Chunk(coord ChunkCoord) *Chunk {
	return w.chunks[coord]
}

// Chunks exposes the live chunk map for main-thread iteration.
func (w *World) Chunks() map[ChunkCoord]*Chunk {
	return w.chunks
}

// ChunkCount returns the number of loaded chunks.
func (w *World) ChunkCount() int { return len(w.chunks) }

// weightedDistance compresses the Y axis so the streaming volume is a
// flattened ellipsoid rather than a sphere.
func weightedDistance(a, center ChunkCoord) float64 {
	dx := float64(a.X - center.X)
	dy := float64(a.Y - center.Y)
	dz := float64(a.Z - center.Z)
	return math.Sqrt(dx*dx + 0.25*dy*dy + dz*dz)
}

// Update advances streaming around the camera position: rescans the desired
// set when the center chunk changes, loads up to chunkLoadsPerFrame chunks
// nearest-first, and evicts chunks beyond the hysteresis radius.
func (w *World) Update(center mgl32.Vec3) {
	w.applyDeferredEdits()

	cc := WorldToChunk(
		int(math.Floor(float64(center.X()))),
		int(math.Floor(float64(center.Y()))),
		int(math.Floor(float64(center.Z()))),
	)
	if !w.hasCenter || cc != w.lastCenter {
		w.lastCenter = cc
		w.hasCenter = true
		w.loadQueue = w.chunksInRange(cc)
	}

	w.processLoadQueue()
	w.evictFarChunks(cc)
}

// chunksInRange returns the desired chunk set around center, nearest first.
func (w *World) chunksInRange(center ChunkCoord) []ChunkCoord {
	r := w.renderDistance
	yMin := center.Y - 2
	if yMin < 0 {
		yMin = 0
	}
	yMax := center.Y + 2
	if yMax > w.maxChunkY {
		yMax = w.maxChunkY
	}

	var out []ChunkCoord
	for x := center.X - r; x <= center.X+r; x++ {
		for z := center.Z - r; z <= center.Z+r; z++ {
			for y := yMin; y <= yMax; y++ {
				c := ChunkCoord{x, y, z}
				if weightedDistance(c, center) <= float64(r) {
					out = append(out, c)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return weightedDistance(out[i], center) < weightedDistance(out[j], center)
	})
	return out
}

func (w *World) processLoadQueue() {
	loaded := 0
	for len(w.loadQueue) > 0 && loaded < chunkLoadsPerFrame {
		coord := w.loadQueue[0]
		w.loadQueue = w.loadQueue[1:]
		if _, ok := w.chunks[coord]; ok {
			continue
		}
		w.loadChunk(coord)
		loaded++
	}
}

func (w *World) loadChunk(coord ChunkCoord) *Chunk {
	ch := NewChunk(coord)
	ch.Generate(w.seed)
	w.chunks[coord] = ch
	w.linkNeighbors(ch)
	return ch
}

// evictFarChunks drops chunks beyond renderDistance+unloadSlack. Chunks a
// worker currently holds stay loaded until the worker releases them.
func (w *World) evictFarChunks(center ChunkCoord) {
	limit := float64(w.renderDistance) + unloadSlack
	for coord, ch := range w.chunks {
		if weightedDistance(coord, center) <= limit {
			continue
		}
		if ch.IsMeshing() {
			continue
		}
		w.unlinkNeighbors(ch)
		delete(w.chunks, coord)
		w.evicted = append(w.evicted, coord)
	}
}

// linkNeighbors wires reciprocal adjacency pointers with all loaded
// neighbors.
func (w *World) linkNeighbors(ch *Chunk) {
	for dir := 0; dir < 6; dir++ {
		off := dirOffsets[dir]
		n := w.chunks[ChunkCoord{ch.Position.X + off[0], ch.Position.Y + off[1], ch.Position.Z + off[2]}]
		if n == nil {
			continue
		}
		ch.SetNeighbor(dir, n)
		n.SetNeighbor(Opposite(dir), ch)
		n.MarkMeshDirty()
	}
}

// unlinkNeighbors clears both sides of every adjacency pointer.
func (w *World) unlinkNeighbors(ch *Chunk) {
	for dir := 0; dir < 6; dir++ {
		if n := ch.Neighbor(dir); n != nil {
			n.SetNeighbor(Opposite(dir), nil)
			ch.SetNeighbor(dir, nil)
		}
	}
}

// DrainEvicted returns chunk coords unloaded since the last call so the
// renderer can release their GPU meshes.
func (w *World) DrainEvicted() []ChunkCoord {
	out := w.evicted
	w.evicted = nil
	return out
}

// Voxel reads a block at world-space coordinates, Air where no chunk is
// loaded.
func (w *World) Voxel(wx, wy, wz int) VoxelID {
	ch := w.chunks[WorldToChunk(wx, wy, wz)]
	if ch == nil {
		return Air
	}
	lx, ly, lz := WorldToLocal(wx, wy, wz)
	return ch.Get(lx, ly, lz)
}

// SetVoxel writes a block at world-space coordinates, loading the owning
// chunk on demand. Edits that would race with an in-flight mesh build are
// deferred and applied by a later Update.
func (w *World) SetVoxel(wx, wy, wz int, v VoxelID) {
	cy := floorDiv(wy, Height)
	if cy < 0 || cy > w.maxChunkY {
		return
	}
	if !w.applyEdit(deferredEdit{wx, wy, wz, v}) {
		w.deferred = append(w.deferred, deferredEdit{wx, wy, wz, v})
	}
}

// applyEdit performs the write unless the target chunk, or a boundary
// neighbor whose mesh the edit touches, is being meshed right now.
func (w *World) applyEdit(e deferredEdit) bool {
	coord := WorldToChunk(e.wx, e.wy, e.wz)
	ch := w.chunks[coord]
	if ch == nil {
		ch = w.loadChunk(coord)
	}
	if ch.IsMeshing() {
		return false
	}
	lx, ly, lz := WorldToLocal(e.wx, e.wy, e.wz)
	for _, dir := range boundaryDirs(lx, ly, lz) {
		if n := ch.Neighbor(dir); n != nil && n.IsMeshing() {
			return false
		}
	}
	ch.Set(lx, ly, lz, e.voxel)
	return true
}

func (w *World) applyDeferredEdits() {
	if len(w.deferred) == 0 {
		return
	}
	remaining := w.deferred[:0]
	for _, e := range w.deferred {
		if !w.applyEdit(e) {
			remaining = append(remaining, e)
		}
	}
	w.deferred = remaining
}

// boundaryDirs lists the neighbor meshes a local-cell edit invalidates.
func boundaryDirs(x, y, z int) []int {
	var dirs []int
	if x == 0 {
		dirs = append(dirs, DirLeft)
	}
	if x == Size-1 {
		dirs = append(dirs, DirRight)
	}
	if y == 0 {
		dirs = append(dirs, DirBottom)
	}
	if y == Height-1 {
		dirs = append(dirs, DirTop)
	}
	if z == 0 {
		dirs = append(dirs, DirBack)
	}
	if z == Size-1 {
		dirs = append(dirs, DirFront)
	}
	return dirs
}
