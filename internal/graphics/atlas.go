package graphics

import (
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"
)

// Atlas layout: 9x5 grid of 16x16 tiles. Tiles 0..9 are the static block
// textures, 10..41 the water animation frames, 42 glass and 43 iron.
const (
	AtlasCols = 9
	AtlasRows = 5
	TileSize  = 16

	WaterFrameStart = 10
	WaterFrameCount = 32
)

// atlasTiles lists the source files in atlas-index order. water_still.png is
// a vertical strip whose square frames expand into WaterFrameCount tiles.
var atlasTiles = []string{
	"air.png",
	"stone.png",
	"dirt.png",
	"grass_block_top.png",
	"grass_block_side.png",
	"cobblestone.png",
	"spruce_log_top.png",
	"spruce_log.png",
	"spruce_leaves.png",
	"sand.png",
	"water_still.png",
	"glass.png",
	"iron_block.png",
}

// BuildAtlasImage assembles the block texture atlas from dir. Missing or
// undecodable files become per-tile colored fallbacks so startup never fails
// on assets; a missing water strip fills all of its frame slots to keep the
// glass and iron indices stable.
func BuildAtlasImage(dir string) *image.RGBA {
	atlas := image.NewRGBA(image.Rect(0, 0, AtlasCols*TileSize, AtlasRows*TileSize))

	cursor := 0
	for i, name := range atlasTiles {
		src, err := loadTile(filepath.Join(dir, name))
		if name == "water_still.png" {
			if err != nil {
				log.Printf("graphics: %v, using fallback water frames", err)
				for f := 0; f < WaterFrameCount && cursor < AtlasCols*AtlasRows; f++ {
					fillFallback(atlas, cursor, i)
					cursor++
				}
				continue
			}
			cursor += drawWaterFrames(atlas, src, cursor)
			continue
		}
		if err != nil {
			log.Printf("graphics: %v, using fallback tile", err)
			fillFallback(atlas, cursor, i)
			cursor++
			continue
		}
		drawTile(atlas, src, cursor)
		cursor++
	}
	return atlas
}

// NewAtlasTexture uploads the assembled atlas with pixel-art filtering.
func NewAtlasTexture(dir string) uint32 {
	atlas := BuildAtlasImage(dir)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA,
		int32(atlas.Rect.Dx()), int32(atlas.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Pix),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func loadTile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func tileRect(index int) image.Rectangle {
	x := (index % AtlasCols) * TileSize
	y := (index / AtlasCols) * TileSize
	return image.Rect(x, y, x+TileSize, y+TileSize)
}

// drawTile scales src into the tile cell with nearest-neighbor sampling.
func drawTile(atlas *image.RGBA, src image.Image, index int) {
	draw.NearestNeighbor.Scale(atlas, tileRect(index), src, src.Bounds(), draw.Src, nil)
}

// drawWaterFrames splits a vertical strip of square frames into consecutive
// tiles starting at cursor and returns how many were placed.
func drawWaterFrames(atlas *image.RGBA, strip image.Image, cursor int) int {
	b := strip.Bounds()
	frameSize := b.Dx()
	frames := 0
	if frameSize > 0 {
		frames = b.Dy() / frameSize
	}
	placed := 0
	for f := 0; f < frames && cursor+placed < AtlasCols*AtlasRows; f++ {
		srcRect := image.Rect(b.Min.X, b.Min.Y+f*frameSize, b.Max.X, b.Min.Y+(f+1)*frameSize)
		draw.NearestNeighbor.Scale(atlas, tileRect(cursor+placed), strip, srcRect, draw.Src, nil)
		placed++
	}
	return placed
}

// fillFallback paints a deterministic color derived from the source index so
// missing assets remain tellable apart in-game.
func fillFallback(atlas *image.RGBA, index, sourceIndex int) {
	r := uint8((sourceIndex * 50) % 255)
	g := uint8((sourceIndex * 80) % 255)
	b := uint8((sourceIndex * 120) % 255)
	rect := tileRect(index)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			i := atlas.PixOffset(x, y)
			atlas.Pix[i+0] = r
			atlas.Pix[i+1] = g
			atlas.Pix[i+2] = b
			atlas.Pix[i+3] = 255
		}
	}
}
