package world

import (
	"math"

	"voxcraft/internal/noise"
)

// Sea level in world-space block coordinates.
const WaterLevel = 55

// World-to-noise coordinate scale for all terrain fields.
const terrainScale = 0.005

var continentalSpline = noise.Spline{
	{In: -1, Out: 30}, {In: -0.5, Out: 50}, {In: 0, Out: 80},
	{In: 0.3, Out: 100}, {In: 0.6, Out: 130}, {In: 1, Out: 160},
}

var erosionSpline = noise.Spline{
	{In: -1, Out: 0}, {In: 0, Out: 10}, {In: 0.5, Out: 25}, {In: 1, Out: 40},
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// heightFromFields combines the three sampled terrain fields into a column
// height. The mountain term only applies where erosion is low; its exponent
// 1.5 is computed as m*m*sqrt(m).
func heightFromFields(c, e, p float64) int {
	base := continentalSpline.Eval(c)
	h := base - erosionSpline.Eval(e)
	if e < 0.3 {
		m := math.Max(0, p-e)
		h += m * m * math.Sqrt(m) * 50
	}
	return int(math.Floor(h))
}

// HeightAt returns the terrain column height at world-space (wx, wz).
func HeightAt(n *noise.Noise, wx, wz int) int {
	nx := float64(wx) * terrainScale
	nz := float64(wz) * terrainScale

	c := clampUnit(n.Continentalness(nx, nz))
	e := clampUnit(n.Erosion(nx, nz))
	p := 0.0
	if e < 0.3 {
		p = clampUnit(n.PeaksAndValleys(nx, nz))
	}
	return heightFromFields(c, e, p)
}

// BlockFor maps a column height and a world-space y to the generated block.
func BlockFor(height, wy int) VoxelID {
	switch {
	case wy < height-3:
		return Stone
	case wy < height-1:
		return Dirt
	case wy < height:
		return Grass
	case wy <= WaterLevel:
		return Water
	default:
		return Air
	}
}
