package meshing

import (
	"container/heap"
	"testing"
	"time"

	"voxcraft/internal/world"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestJobHeapOrdersByDistance(t *testing.T) {
	h := &jobHeap{}
	heap.Push(h, job{dist: 30})
	heap.Push(h, job{dist: 10})
	heap.Push(h, job{dist: 20})

	last := -1.0
	for h.Len() > 0 {
		j := heap.Pop(h).(job)
		if j.dist < last {
			t.Fatalf("heap popped %v after %v", j.dist, last)
		}
		last = j.dist
	}
}

func TestPoolBuildsMeshForUpload(t *testing.T) {
	ch := world.NewChunk(world.ChunkCoord{X: 0, Y: 0, Z: 0})
	ch.Set(8, 30, 8, world.Stone)
	ch.MarkMeshDirty()

	p := NewPool(1)
	defer p.Shutdown()

	p.Enqueue(ch, 1.0)

	var res Result
	waitFor(t, 2*time.Second, func() bool {
		var ok bool
		res, ok = p.PopUpload()
		return ok
	})

	if res.Chunk != ch {
		t.Fatal("upload result references the wrong chunk")
	}
	if res.Mesh.FaceCount() != 6 {
		t.Fatalf("built mesh has %d faces, want 6", res.Mesh.FaceCount())
	}
	if ch.NeedsMeshRebuild() {
		t.Fatal("chunk still marked dirty after build")
	}
	if !ch.IsMeshing() {
		t.Fatal("meshing flag released before the main-thread upload")
	}
	ch.SetMeshing(false)
}

func TestPoolSkipsCleanChunk(t *testing.T) {
	ch := world.NewChunk(world.ChunkCoord{X: 0, Y: 0, Z: 0})
	// Never marked dirty: the worker must drop it without an upload.

	p := NewPool(1)
	defer p.Shutdown()

	p.Enqueue(ch, 1.0)
	waitFor(t, 2*time.Second, func() bool { return !ch.IsMeshing() })

	if _, ok := p.PopUpload(); ok {
		t.Fatal("clean chunk produced an upload")
	}
}

func TestShutdownReleasesQueuedChunks(t *testing.T) {
	chunks := make([]*world.Chunk, 5)
	p := NewPool(1)

	// Stall the single worker with a real build, then pile up jobs.
	for i := range chunks {
		chunks[i] = world.NewChunk(world.ChunkCoord{X: i, Y: 0, Z: 0})
		chunks[i].MarkMeshDirty()
		p.Enqueue(chunks[i], float64(i))
	}
	p.Shutdown()

	for i, ch := range chunks {
		if ch.IsMeshing() {
			t.Fatalf("chunk %d still flagged as meshing after shutdown", i)
		}
	}
}

func TestEnqueueAfterShutdownIsNoop(t *testing.T) {
	p := NewPool(1)
	p.Shutdown()

	ch := world.NewChunk(world.ChunkCoord{X: 0, Y: 0, Z: 0})
	ch.MarkMeshDirty()
	p.Enqueue(ch, 1.0)
	if ch.IsMeshing() {
		t.Fatal("enqueue after shutdown left the meshing flag set")
	}
	if p.QueueLen() != 0 {
		t.Fatal("enqueue after shutdown grew the queue")
	}
}
