package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"Shade3D/internal/loader"
	"Shade3D/internal/logger"
	"Shade3D/internal/renderer"
	"Shade3D/internal/texture"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "TOML render config (defaults used when empty)")
	gltfPath := flag.String("gltf", "", "glTF/GLB scene to render (built-in sphere scene when empty)")
	outPath := flag.String("out", "frame.png", "output PNG path")
	watch := flag.Bool("watch", false, "re-render on config changes until interrupted")
	flag.Parse()

	logger.Init()

	cfg := renderer.DefaultRenderConfig()
	if *configPath != "" {
		loaded, err := renderer.LoadRenderConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	r := renderer.New(cfg)
	defer r.Cleanup()

	if *gltfPath != "" {
		meshes, err := loader.LoadGLTF(*gltfPath, texture.NewManager())
		if err != nil {
			fmt.Fprintf(os.Stderr, "load: %v\n", err)
			os.Exit(1)
		}
		for _, m := range meshes {
			r.AddMesh(m)
		}
	} else {
		setupDefaultScene(r, cfg)
	}

	r.Camera.Position = mgl32.Vec3{0, 1.5, 4}
	r.Camera.LookAt(mgl32.Vec3{0, 0, 0})

	if err := r.RenderToPNG(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}

	if *watch {
		if *configPath == "" {
			fmt.Fprintln(os.Stderr, "-watch requires -config")
			os.Exit(1)
		}
		watchAndRerender(r, *configPath, *outPath)
	}
}

// watchAndRerender re-renders the frame with fresh light and camera settings
// every time the config file changes, until interrupted.
func watchAndRerender(r *renderer.Renderer, configPath, outPath string) {
	stop, err := renderer.WatchRenderConfig(configPath, func(cfg renderer.RenderConfig) {
		r.ApplyConfig(cfg)
		if err := r.RenderToPNG(outPath); err != nil {
			logger.Log.Warn("Re-render failed", zap.Error(err))
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
	defer stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
}

// setupDefaultScene builds a two-mesh showcase: a procedurally textured
// sphere on the full shading path and a factor-only cube on the simplified
// one.
func setupDefaultScene(r *renderer.Renderer, cfg renderer.RenderConfig) {
	sphere := renderer.NewUVSphere(64, 32)
	sphere.Material = renderer.DefaultMaterialFromConfig(cfg)
	sphere.Textures = renderer.ProceduralTextureSet(7, mgl32.Vec3{0.8, 0.55, 0.35}, cfg.Roughness, cfg.Metallic)
	sphere.SetPosition(-0.8, 0, 0)
	r.AddMesh(sphere)

	cube := renderer.NewCube()
	cube.Material = renderer.DefaultMaterialFromConfig(cfg)
	cube.Material.BaseColorFactor = mgl32.Vec4{0.3, 0.5, 0.85, 1}
	cube.SetPosition(1.2, 0, 0)
	cube.Rotate(0, 30, 0)
	r.AddMesh(cube)
}
