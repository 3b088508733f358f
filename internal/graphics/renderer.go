package graphics

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxcraft/internal/config"
	"voxcraft/internal/meshing"
	"voxcraft/internal/profiling"
	"voxcraft/internal/world"
)

const (
	// maxQueuedPerFrame bounds how many chunks enter the mesh queue per
	// Update call.
	maxQueuedPerFrame = 8
	// maxQueueBacklog stops enqueueing while the workers are behind.
	maxQueueBacklog = 10
	// maxUploadsPerFrame and uploadBudget bound main-thread GPU uploads.
	maxUploadsPerFrame = 1
	uploadBudget       = time.Millisecond
)

// chunkMesh is the GPU-side state for one chunk.
type chunkMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	vertexCount   int
}

func (m *chunkMesh) delete() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		m.vao, m.vbo, m.ebo = 0, 0, 0
	}
	m.indexCount = 0
}

// Renderer drives streaming, meshing and the two draw passes. All of its
// methods run on the main thread; only the mesh pool's workers run elsewhere.
type Renderer struct {
	world  *world.World
	shader *Shader
	atlas  uint32
	pool   *meshing.Pool

	meshes map[world.ChunkCoord]*chunkMesh

	waterTime float32
	wireframe bool

	chunksRendered   int
	verticesRendered int
	frameCounter     int
}

// NewRenderer compiles the voxel shader, builds the texture atlas and starts
// the mesh worker pool.
func NewRenderer(w *world.World, assetDir string, workers int) (*Renderer, error) {
	shader, err := NewShader(
		filepath.Join(assetDir, "shaders", "voxel.vert"),
		filepath.Join(assetDir, "shaders", "voxel.frag"),
	)
	if err != nil {
		return nil, fmt.Errorf("voxel shader: %w", err)
	}

	r := &Renderer{
		world:  w,
		shader: shader,
		atlas:  NewAtlasTexture(filepath.Join(assetDir, "textures")),
		pool:   meshing.NewPool(workers),
		meshes: make(map[world.ChunkCoord]*chunkMesh),
	}
	return r, nil
}

// Update advances water animation, streams the world around the camera,
// schedules mesh builds nearest-first and uploads finished meshes within the
// per-frame budget.
func (r *Renderer) Update(camPos mgl32.Vec3) {
	defer profiling.Track("renderer.Update")()

	r.waterTime += 1.0 / 60.0
	r.world.Update(camPos)

	for _, coord := range r.world.DrainEvicted() {
		if m, ok := r.meshes[coord]; ok {
			m.delete()
			delete(r.meshes, coord)
		}
	}

	r.scheduleMeshing(camPos)
	r.drainUploads()

	r.frameCounter++
	if r.frameCounter%300 == 0 {
		log.Printf("renderer: chunks=%d meshQueue=%d drawn=%d verts=%d frame=[%s]",
			r.world.ChunkCount(), r.pool.QueueLen(), r.chunksRendered, r.verticesRendered,
			profiling.TopN(3))
	}
}

type meshCandidate struct {
	dist  float64
	chunk *world.Chunk
}

func (r *Renderer) scheduleMeshing(camPos mgl32.Vec3) {
	defer profiling.Track("renderer.scheduleMeshing")()

	var candidates []meshCandidate
	for coord, ch := range r.world.Chunks() {
		if !ch.NeedsMeshRebuild() || ch.IsMeshing() {
			continue
		}
		candidates = append(candidates, meshCandidate{
			dist:  chunkDistance(camPos, coord),
			chunk: ch,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > maxQueuedPerFrame {
		candidates = candidates[:maxQueuedPerFrame]
	}

	if r.pool.QueueLen() >= maxQueueBacklog {
		return
	}
	for _, c := range candidates {
		r.pool.Enqueue(c.chunk, c.dist)
	}
}

func (r *Renderer) drainUploads() {
	defer profiling.Track("renderer.drainUploads")()

	start := time.Now()
	for uploaded := 0; uploaded < maxUploadsPerFrame; uploaded++ {
		res, ok := r.pool.PopUpload()
		if !ok {
			return
		}
		r.uploadMesh(res.Chunk.Position, res.Mesh)
		res.Chunk.SetMeshing(false)
		if time.Since(start) >= uploadBudget {
			return
		}
	}
}

// uploadMesh copies a built mesh into (re)used GL buffers. Empty meshes keep
// an entry with no geometry so the draw passes skip them cheaply.
func (r *Renderer) uploadMesh(coord world.ChunkCoord, mesh *meshing.Mesh) {
	m, ok := r.meshes[coord]
	if !ok {
		m = &chunkMesh{}
		r.meshes[coord] = m
	}
	if mesh.Empty() {
		m.delete()
		return
	}

	if m.vao == 0 {
		gl.GenVertexArrays(1, &m.vao)
		gl.GenBuffers(1, &m.vbo)
		gl.GenBuffers(1, &m.ebo)
	}
	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	stride := int32(meshing.VertexFloats * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, stride, 8*4)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribPointerWithOffset(4, 1, gl.FLOAT, false, stride, 9*4)

	gl.BindVertexArray(0)

	m.indexCount = int32(len(mesh.Indices))
	m.vertexCount = mesh.VertexCount()
}

type drawEntry struct {
	dist  float64
	coord world.ChunkCoord
	mesh  *chunkMesh
}

// Render draws all visible chunk meshes: opaque front-to-back, then
// transparent back-to-front with depth writes off.
func (r *Renderer) Render(view, projection mgl32.Mat4, camPos mgl32.Vec3) {
	defer profiling.Track("renderer.Render")()

	r.chunksRendered = 0
	r.verticesRendered = 0

	r.shader.Use()
	r.shader.SetMatrix4("view", &view[0])
	r.shader.SetMatrix4("projection", &projection[0])
	r.shader.SetFloat("time", r.waterTime*float32(config.GetWaterFPS())/2)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.atlas)
	r.shader.SetInt("texture_atlas", 0)

	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	visible := r.visibleChunks(camPos)

	// Opaque pass, front to back for early depth rejection.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
	r.shader.SetInt("renderPass", 0)
	sort.Slice(visible, func(i, j int) bool { return visible[i].dist < visible[j].dist })
	for _, e := range visible {
		r.drawChunk(e)
		r.chunksRendered++
		r.verticesRendered += e.mesh.vertexCount
	}

	// Transparent pass, back to front, depth writes off.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	r.shader.SetInt("renderPass", 1)
	sort.Slice(visible, func(i, j int) bool { return visible[i].dist > visible[j].dist })
	for _, e := range visible {
		r.drawChunk(e)
	}

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (r *Renderer) visibleChunks(camPos mgl32.Vec3) []drawEntry {
	maxChunks := float64(r.world.RenderDistance()) * 1.2
	var out []drawEntry
	for coord, m := range r.meshes {
		if m.indexCount == 0 {
			continue
		}
		dist := chunkDistance(camPos, coord)
		if dist/world.Size > maxChunks {
			continue
		}
		out = append(out, drawEntry{dist: dist, coord: coord, mesh: m})
	}
	return out
}

func (r *Renderer) drawChunk(e drawEntry) {
	model := mgl32.Translate3D(
		float32(e.coord.X*world.Size),
		float32(e.coord.Y*world.Height),
		float32(e.coord.Z*world.Size),
	)
	r.shader.SetMatrix4("model", &model[0])
	gl.BindVertexArray(e.mesh.vao)
	gl.DrawElements(gl.TRIANGLES, e.mesh.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// chunkDistance measures from the camera to the chunk center in blocks.
func chunkDistance(camPos mgl32.Vec3, coord world.ChunkCoord) float64 {
	center := mgl32.Vec3{
		float32(coord.X*world.Size) + world.Size/2,
		float32(coord.Y*world.Height) + world.Height/2,
		float32(coord.Z*world.Size) + world.Size/2,
	}
	return float64(camPos.Sub(center).Len())
}

// ToggleWireframe flips line rendering for the next frames.
func (r *Renderer) ToggleWireframe() {
	r.wireframe = !r.wireframe
}

// ChunksRendered reports how many chunks the last opaque pass drew.
func (r *Renderer) ChunksRendered() int { return r.chunksRendered }

// VerticesRendered reports the vertex total of the last opaque pass.
func (r *Renderer) VerticesRendered() int { return r.verticesRendered }

// Dispose stops the workers and releases all GPU objects.
func (r *Renderer) Dispose() {
	r.pool.Shutdown()
	for coord, m := range r.meshes {
		m.delete()
		delete(r.meshes, coord)
	}
	if r.atlas != 0 {
		gl.DeleteTextures(1, &r.atlas)
		r.atlas = 0
	}
	r.shader.Delete()
}
