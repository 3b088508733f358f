package meshing

import (
	"container/heap"
	"context"
	"log"
	"sync"
	"time"

	"voxcraft/internal/world"
)

// buildTimeout is the budget for a single mesh build. Builds that overrun
// are discarded and the chunk retried on a later frame.
const buildTimeout = 500 * time.Millisecond

type job struct {
	chunk *world.Chunk
	dist  float64
}

// jobHeap is a min-heap keyed by camera distance so workers always pick the
// nearest pending chunk.
type jobHeap []job

func (h jobHeap) Len() int            { return len(h) }
func (h jobHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h jobHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *jobHeap) Push(x interface{}) { *h = append(*h, x.(job)) }
func (h *jobHeap) Pop() interface{} {
	old := *h
	n := len(old)
	j := old[n-1]
	*h = old[:n-1]
	return j
}

// Result is a completed build waiting for its main-thread GPU upload.
type Result struct {
	Chunk   *world.Chunk
	Mesh    *Mesh
	Elapsed time.Duration
}

// Pool runs mesh builds on background workers. Chunks enter via Enqueue with
// their meshing flag raised and leave either through the upload queue (the
// main thread lowers the flag after uploading) or by being released here on
// skip, panic, or timeout.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   jobHeap
	uploads []Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines. workers is clamped to at least 1.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	p.ctx, p.cancel = context.WithCancel(context.Background())
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Enqueue hands a chunk to the pool. The caller must not touch the chunk's
// voxels until the meshing flag drops again.
func (p *Pool) Enqueue(ch *world.Chunk, dist float64) {
	ch.SetMeshing(true)
	p.mu.Lock()
	if p.ctx.Err() != nil {
		p.mu.Unlock()
		ch.SetMeshing(false)
		return
	}
	heap.Push(&p.queue, job{chunk: ch, dist: dist})
	p.mu.Unlock()
	p.cond.Signal()
}

// QueueLen returns the number of pending builds.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// PopUpload removes one finished build, if any.
func (p *Pool) PopUpload() (Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.uploads) == 0 {
		return Result{}, false
	}
	r := p.uploads[0]
	p.uploads = p.uploads[1:]
	return r, true
}

// Shutdown stops the workers and waits for them. Chunks still queued get
// their meshing flag released so the world can evict them.
func (p *Pool) Shutdown() {
	p.cancel()
	p.cond.Broadcast()
	p.wg.Wait()

	p.mu.Lock()
	for _, j := range p.queue {
		j.chunk.SetMeshing(false)
	}
	p.queue = nil
	for _, r := range p.uploads {
		r.Chunk.SetMeshing(false)
	}
	p.uploads = nil
	p.mu.Unlock()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && p.ctx.Err() == nil {
			p.cond.Wait()
		}
		if p.ctx.Err() != nil {
			p.mu.Unlock()
			return
		}
		j := heap.Pop(&p.queue).(job)
		p.mu.Unlock()

		p.process(j.chunk)
	}
}

func (p *Pool) process(ch *world.Chunk) {
	if !ch.NeedsMeshRebuild() {
		ch.SetMeshing(false)
		return
	}
	// Clear before building so invalidations arriving mid-build are kept.
	ch.ClearMeshDirty()

	start := time.Now()
	mesh := buildSafe(ch)
	elapsed := time.Since(start)

	if mesh == nil {
		ch.MarkMeshDirty()
		ch.SetMeshing(false)
		return
	}
	if elapsed > buildTimeout {
		log.Printf("meshing: build for chunk (%d,%d,%d) took %v, discarding and retrying",
			ch.Position.X, ch.Position.Y, ch.Position.Z, elapsed)
		ch.MarkMeshDirty()
		ch.SetMeshing(false)
		return
	}

	p.mu.Lock()
	p.uploads = append(p.uploads, Result{Chunk: ch, Mesh: mesh, Elapsed: elapsed})
	p.mu.Unlock()
}

func buildSafe(ch *world.Chunk) (m *Mesh) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("meshing: build for chunk (%d,%d,%d) panicked: %v",
				ch.Position.X, ch.Position.Y, ch.Position.Z, r)
			m = nil
		}
	}()
	return Build(ch)
}
