package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"voxcraft/internal/config"
	"voxcraft/internal/game"
	"voxcraft/internal/graphics"
	"voxcraft/internal/world"
)

func init() {
	// GLFW and OpenGL calls must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	assetDir := flag.String("assets", "assets", "path to the shader and texture assets")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw init: %v", err)
	}
	defer glfw.Terminate()

	window, err := game.SetupWindow(1280, 720, "voxcraft")
	if err != nil {
		log.Fatalf("window setup: %v", err)
	}

	w := world.New(config.GetWorldSeed(), config.GetRenderDistance(), config.GetMaxChunkY())

	renderer, err := graphics.NewRenderer(w, *assetDir, config.GetWorkers())
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}
	defer renderer.Dispose()

	camera := graphics.NewCamera(mgl32.Vec3{8, 100, 8})

	log.Printf("voxcraft starting: seed=%d renderDistance=%d workers=%d",
		config.GetWorldSeed(), config.GetRenderDistance(), config.GetWorkers())

	game.NewLoop(window, w, renderer, camera).Run()
}
