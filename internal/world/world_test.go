package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// settle runs Update until the load queue drains.
func settle(w *World, pos mgl32.Vec3) {
	for i := 0; i < 2000; i++ {
		w.Update(pos)
		if len(w.loadQueue) == 0 {
			return
		}
	}
}

func TestFloorDivConversions(t *testing.T) {
	cases := []struct {
		wx, wy, wz int
		want       ChunkCoord
	}{
		{0, 0, 0, ChunkCoord{0, 0, 0}},
		{15, 63, 15, ChunkCoord{0, 0, 0}},
		{16, 64, 16, ChunkCoord{1, 1, 1}},
		{-1, -1, -1, ChunkCoord{-1, -1, -1}},
		{-16, -64, -16, ChunkCoord{-1, -1, -1}},
		{-17, -65, -17, ChunkCoord{-2, -2, -2}},
	}
	for _, c := range cases {
		if got := WorldToChunk(c.wx, c.wy, c.wz); got != c.want {
			t.Errorf("WorldToChunk(%d,%d,%d) = %v, want %v", c.wx, c.wy, c.wz, got, c.want)
		}
	}

	lx, ly, lz := WorldToLocal(-1, -1, -1)
	if lx != Size-1 || ly != Height-1 || lz != Size-1 {
		t.Fatalf("WorldToLocal(-1,-1,-1) = (%d,%d,%d)", lx, ly, lz)
	}
}

func TestUpdateLoadsNearestFirst(t *testing.T) {
	w := New(42, 4, 7)
	pos := mgl32.Vec3{8, 100, 8} // center chunk (0, 1, 0)

	w.Update(pos)
	if w.ChunkCount() != chunkLoadsPerFrame {
		t.Fatalf("first update loaded %d chunks, want %d", w.ChunkCount(), chunkLoadsPerFrame)
	}
	if w.Chunk(ChunkCoord{0, 1, 0}) == nil {
		t.Fatal("center chunk was not loaded first")
	}
}

func TestUpdateRespectsRadiusAndHeightBand(t *testing.T) {
	w := New(42, 3, 7)
	pos := mgl32.Vec3{8, 100, 8} // center chunk (0, 1, 0)
	settle(w, pos)

	center := ChunkCoord{0, 1, 0}
	for coord := range w.Chunks() {
		if weightedDistance(coord, center) > 3 {
			t.Fatalf("chunk %v outside streaming radius", coord)
		}
		if coord.Y < 0 || coord.Y > 3 {
			t.Fatalf("chunk %v outside vertical band", coord)
		}
	}

	// Everything desired must be present once settled.
	for _, coord := range w.chunksInRange(center) {
		if w.Chunk(coord) == nil {
			t.Fatalf("desired chunk %v not loaded", coord)
		}
	}
}

func TestNeighborReciprocity(t *testing.T) {
	w := New(7, 3, 7)
	settle(w, mgl32.Vec3{8, 100, 8})

	for coord, ch := range w.Chunks() {
		for dir := 0; dir < 6; dir++ {
			n := ch.Neighbor(dir)
			if n == nil {
				continue
			}
			if back := n.Neighbor(Opposite(dir)); back != ch {
				t.Fatalf("chunk %v dir %d: neighbor does not point back", coord, dir)
			}
		}
	}
}

func TestEvictionHysteresis(t *testing.T) {
	w := New(9, 2, 0)
	settle(w, mgl32.Vec3{8, 8, 8}) // center chunk (0,0,0)

	edge := ChunkCoord{2, 0, 0}
	if w.Chunk(edge) == nil {
		t.Fatal("edge chunk not loaded")
	}

	// One chunk back: distance grows to 3, still inside 2+1.5.
	settle(w, mgl32.Vec3{8 - Size, 8, 8})
	if w.Chunk(edge) == nil {
		t.Fatal("edge chunk evicted inside the hysteresis band")
	}

	// Another chunk back: distance 4 exceeds 3.5.
	settle(w, mgl32.Vec3{8 - 2*Size, 8, 8})
	if w.Chunk(edge) != nil {
		t.Fatal("edge chunk survived beyond the eviction radius")
	}

	found := false
	for _, coord := range w.DrainEvicted() {
		if coord == edge {
			found = true
		}
	}
	if !found {
		t.Fatal("evicted chunk not reported for GPU cleanup")
	}
	if len(w.DrainEvicted()) != 0 {
		t.Fatal("DrainEvicted did not clear the list")
	}
}

func TestEvictionSkipsMeshingChunks(t *testing.T) {
	w := New(9, 2, 0)
	settle(w, mgl32.Vec3{8, 8, 8})

	edge := w.Chunk(ChunkCoord{2, 0, 0})
	if edge == nil {
		t.Fatal("edge chunk not loaded")
	}
	edge.SetMeshing(true)

	settle(w, mgl32.Vec3{8 - 4*Size, 8, 8})
	if w.Chunk(ChunkCoord{2, 0, 0}) == nil {
		t.Fatal("chunk evicted while a worker held it")
	}

	edge.SetMeshing(false)
	settle(w, mgl32.Vec3{8 - 4*Size, 8, 8})
	if w.Chunk(ChunkCoord{2, 0, 0}) != nil {
		t.Fatal("chunk not evicted after the worker released it")
	}
}

func TestUnloadClearsNeighborPointers(t *testing.T) {
	w := New(7, 2, 0)
	settle(w, mgl32.Vec3{8, 8, 8})

	kept := w.Chunk(ChunkCoord{0, 0, 0})
	if kept == nil {
		t.Fatal("center chunk missing")
	}

	settle(w, mgl32.Vec3{8 + 10*Size, 8, 8})
	for dir := 0; dir < 6; dir++ {
		if n := kept.Neighbor(dir); n != nil {
			if w.Chunk(n.Position) == nil {
				t.Fatalf("evicted chunk still referenced as neighbor in dir %d", dir)
			}
		}
	}
}

func TestSetVoxelCreatesChunk(t *testing.T) {
	w := New(11, 2, 7)
	w.SetVoxel(100, 100, 100, Iron)
	if got := w.Voxel(100, 100, 100); got != Iron {
		t.Fatalf("voxel = %v, want Iron", got)
	}
	ch := w.Chunk(WorldToChunk(100, 100, 100))
	if ch == nil || !ch.IsGenerated() {
		t.Fatal("edit did not load and generate the owning chunk")
	}
}

func TestSetVoxelRespectsVerticalCap(t *testing.T) {
	w := New(11, 2, 3)
	w.SetVoxel(0, 4*Height, 0, Iron)
	if w.ChunkCount() != 0 {
		t.Fatal("edit above the vertical cap loaded a chunk")
	}
	w.SetVoxel(0, -1, 0, Iron)
	if w.ChunkCount() != 0 {
		t.Fatal("edit below y=0 loaded a chunk")
	}
}

func TestVoxelMissingChunkIsAir(t *testing.T) {
	w := New(11, 2, 7)
	if got := w.Voxel(5, 5, 5); got != Air {
		t.Fatalf("voxel in unloaded space = %v, want Air", got)
	}
}

func TestEditDeferredWhileMeshing(t *testing.T) {
	w := New(11, 2, 7)
	w.SetVoxel(8, 100, 8, Iron) // load the chunk
	ch := w.Chunk(WorldToChunk(8, 100, 8))

	ch.SetMeshing(true)
	w.SetVoxel(8, 101, 8, Glass)
	if got := w.Voxel(8, 101, 8); got == Glass {
		t.Fatal("edit applied while the chunk was meshing")
	}

	ch.SetMeshing(false)
	w.Update(mgl32.Vec3{8, 100, 8})
	if got := w.Voxel(8, 101, 8); got != Glass {
		t.Fatalf("deferred edit not applied, voxel = %v", got)
	}
}

func TestBoundaryEditDeferredWhileNeighborMeshing(t *testing.T) {
	w := New(11, 2, 7)
	settle(w, mgl32.Vec3{8, 100, 8})

	ch := w.Chunk(ChunkCoord{0, 1, 0})
	right := ch.Neighbor(DirRight)
	if right == nil {
		t.Fatal("right neighbor not loaded")
	}
	right.SetMeshing(true)

	// Edit on the +X boundary of ch touches the right neighbor's mesh.
	w.SetVoxel(Size-1, Height+10, 8, Iron)
	if w.Voxel(Size-1, Height+10, 8) == Iron {
		t.Fatal("boundary edit applied while neighbor was meshing")
	}

	right.SetMeshing(false)
	w.Update(mgl32.Vec3{8, 100, 8})
	if w.Voxel(Size-1, Height+10, 8) != Iron {
		t.Fatal("deferred boundary edit not applied")
	}
}

func TestGenerationOrderIndependent(t *testing.T) {
	coords := []ChunkCoord{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {-1, 1, 2}}

	forward := make(map[ChunkCoord][32]byte)
	for _, c := range coords {
		ch := NewChunk(c)
		ch.Generate(1234)
		forward[c] = hashChunkBlocks(ch)
	}
	for i := len(coords) - 1; i >= 0; i-- {
		ch := NewChunk(coords[i])
		ch.Generate(1234)
		if hashChunkBlocks(ch) != forward[coords[i]] {
			t.Fatalf("chunk %v differs under reversed generation order", coords[i])
		}
	}
}
