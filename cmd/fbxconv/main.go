package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"fbx-decoder/internal/batch"
	"fbx-decoder/internal/config"
	"fbx-decoder/internal/export"
	"fbx-decoder/internal/mathutil"
	"fbx-decoder/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .toml or .yaml)")
	inputDir := flag.String("input", "", "Directory searched for .fbx files (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/fbx-out)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	size := flag.Int("size", 0, "Preview edge length in pixels (default: 256)")
	format := flag.String("format", "", "Preview format: webp, tga or png (default: webp)")
	camera := flag.String("camera", "", "Preview camera: default, front or mirror")
	lenient := flag.Bool("lenient", false, "Recover from malformed node sizes, shading models and texture slots")
	noPreview := flag.Bool("no-preview", false, "Skip preview rendering")
	noPLY := flag.Bool("no-ply", false, "Skip PLY export")
	testN := flag.Int("test", 0, "Convert only the first N files")
	watch := flag.Bool("watch", false, "After the initial run, convert files as they appear")
	verbose := flag.Bool("v", false, "Log decoder diagnostics")

	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:      *inputDir,
		OutputDir:     *outputDir,
		PreviewFormat: *format,
		Camera:        *camera,
		Workers:       *workers,
		PreviewSize:   *size,
		Lenient:       *lenient,
		NoPreview:     *noPreview,
		NoPLY:         *noPLY,
	})

	imgFormat, err := export.ParseImageFormat(cfg.PreviewFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	view, ok := mathutil.Camera(cfg.Camera)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown camera %q\n", cfg.Camera)
		os.Exit(1)
	}

	var flags scene.Flags
	if *cfg.LoadUVs {
		flags |= scene.LoadUVs
	}
	if *cfg.LoadNormals {
		flags |= scene.LoadNormals
	}
	if *cfg.LoadMaterials {
		flags |= scene.LoadMaterials
	}

	batchCfg := batch.Config{
		InputDir:    cfg.InputDir,
		OutputDir:   cfg.OutputDir,
		Decode:      scene.Options{Flags: flags, Lenient: cfg.Lenient},
		WritePLY:    *cfg.WritePLY,
		Preview:     *cfg.Preview,
		PreviewSize: cfg.PreviewSize,
		Supersample: cfg.Supersample,
		FillRatio:   cfg.FillRatio,
		Format:      imgFormat,
		View:        view,
		Workers:     cfg.Workers,
	}

	files, skipped, err := batch.Discover(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", cfg.InputDir, err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Printf("Skipping (not a binary container): %s\n", s)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}

	if len(files) == 0 && !*watch {
		fmt.Println("No files to convert.")
		os.Exit(0)
	}

	fmt.Printf("Binary scene converter → PLY + %s preview\n", imgFormat)
	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batchCfg, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, triangles := 0, 0
	var failures []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			triangles += r.Triangles
		} else {
			failures = append(failures, r)
		}
	}

	fmt.Printf("Converted: %d/%d (%d triangles)\n", success, len(files), triangles)

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		for _, e := range failures[:min(20, len(failures))] {
			fmt.Printf("  %s: %s\n", e.File, e.Error)
		}
	}

	if len(results) > 0 {
		if path, err := batch.WriteManifest(batchCfg, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", path)
		}
	}

	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		fmt.Printf("Watching %s (Ctrl-C to stop)\n", cfg.InputDir)
		err := batch.Watch(ctx, batchCfg, func(r batch.Result) {
			if r.Success {
				fmt.Printf("  %s: %d meshes, %d triangles\n", r.File, r.Meshes, r.Triangles)
			} else {
				fmt.Printf("  %s: %s\n", r.File, r.Error)
			}
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}
