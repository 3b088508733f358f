package world

import (
	"testing"

	"voxcraft/internal/noise"
)

func TestHeightFromFieldsFlatNoise(t *testing.T) {
	// All fields at zero: continental spline gives 80, erosion spline 10,
	// mountain term max(0, 0-0) contributes nothing.
	if got := heightFromFields(0, 0, 0); got != 70 {
		t.Fatalf("flat-noise height = %d, want 70", got)
	}
}

func TestHeightFromFieldsSplineEndpoints(t *testing.T) {
	// Deep ocean: continental -1 -> 30, erosion 1 -> 40.
	if got := heightFromFields(-1, 1, 0); got != -10 {
		t.Fatalf("height(-1, 1) = %d, want -10", got)
	}
	// Full mountains: continental 1 -> 160, erosion -1 -> 0, peaks 1
	// adds floor(2*2*sqrt(2)*50) = 282 on top.
	got := heightFromFields(1, -1, 1)
	want := 442
	if got != want {
		t.Fatalf("height(1, -1, 1) = %d, want %d", got, want)
	}
}

func TestHeightFromFieldsMountainGate(t *testing.T) {
	// Erosion at the 0.3 gate suppresses the mountain term entirely.
	withPeaks := heightFromFields(0, 0.3, 1)
	withoutPeaks := heightFromFields(0, 0.3, 0)
	if withPeaks != withoutPeaks {
		t.Fatalf("mountain term applied at erosion 0.3: %d != %d", withPeaks, withoutPeaks)
	}
}

func TestHeightAtDeterministic(t *testing.T) {
	a := noise.New(42)
	b := noise.New(42)
	for i := -50; i < 50; i += 7 {
		if HeightAt(a, i, -i) != HeightAt(b, i, -i) {
			t.Fatalf("height diverged at %d", i)
		}
	}
}

func TestBlockForBands(t *testing.T) {
	const h = 70
	cases := []struct {
		wy   int
		want VoxelID
	}{
		{0, Stone},
		{h - 4, Stone},
		{h - 3, Dirt},
		{h - 2, Dirt},
		{h - 1, Grass},
		{h, Air}, // above a height over sea level
		{200, Air},
	}
	for _, c := range cases {
		if got := BlockFor(h, c.wy); got != c.want {
			t.Errorf("BlockFor(%d, %d) = %v, want %v", h, c.wy, got, c.want)
		}
	}
}

func TestBlockForWaterFillsToSeaLevel(t *testing.T) {
	const h = 40 // below sea level
	for wy := h; wy <= WaterLevel; wy++ {
		if got := BlockFor(h, wy); got != Water {
			t.Fatalf("BlockFor(%d, %d) = %v, want Water", h, wy, got)
		}
	}
	if got := BlockFor(h, WaterLevel+1); got != Air {
		t.Fatalf("BlockFor(%d, %d) = %v, want Air", h, WaterLevel+1, got)
	}
}
