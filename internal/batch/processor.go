package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fbx-decoder/internal/export"
	"fbx-decoder/internal/mathutil"
	"fbx-decoder/internal/postprocess"
	"fbx-decoder/internal/raster"
	"fbx-decoder/internal/scene"
)

// Config holds all shared settings for a batch run.
type Config struct {
	InputDir    string
	OutputDir   string
	Decode      scene.Options
	WritePLY    bool
	Preview     bool
	PreviewSize int
	Supersample int
	FillRatio   float32
	Format      export.ImageFormat
	View        mathutil.Mat3
	Workers     int
	Quiet       bool // no progress lines
}

// Result holds the outcome of converting one file.
type Result struct {
	File      string
	Models    int
	Meshes    int
	Materials int
	Triangles int
	PLYs      []string
	Preview   string
	Success   bool
	Error     string
}

// Run converts all files using a worker pool. Results keep the order of files.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 && !cfg.Quiet {
					rate := float64(p) / time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, max(1, cfg.Workers)*2)
	var wg sync.WaitGroup

	for w := 0; w < max(1, cfg.Workers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = ProcessFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

// OutputDirFor returns the directory the outputs of file are written to:
// the file's path relative to the input directory, without extension.
func OutputDirFor(cfg Config, file string) string {
	rel, err := filepath.Rel(cfg.InputDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}
	return filepath.Join(cfg.OutputDir, strings.TrimSuffix(rel, filepath.Ext(rel)))
}

// ProcessFile decodes one container and writes its PLY meshes and preview.
func ProcessFile(cfg Config, file string) Result {
	res := Result{File: file}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	s, err := scene.Load(file, cfg.Decode)
	if err != nil {
		return fail(err)
	}
	res.Models, res.Meshes, res.Materials = len(s.Models), len(s.Meshes), len(s.Materials)
	for i := range s.Meshes {
		res.Triangles += s.Meshes[i].Geometry.NumTriangles()
	}
	if res.Meshes == 0 {
		return fail(fmt.Errorf("no meshes in %s", filepath.Base(file)))
	}

	outDir := OutputDirFor(cfg, file)
	if cfg.WritePLY {
		if res.PLYs, err = export.WriteScenePLYs(outDir, s); err != nil {
			return fail(err)
		}
	}

	if cfg.Preview {
		img := raster.Render(raster.Instances(s), raster.Options{
			Size:        cfg.PreviewSize,
			Supersample: cfg.Supersample,
			View:        cfg.View,
			Margin:      4,
		})
		if cfg.Supersample > 1 {
			img = postprocess.Downsample(img, cfg.PreviewSize, cfg.PreviewSize)
		}
		img = postprocess.Frame(img, cfg.PreviewSize, cfg.FillRatio)

		res.Preview = filepath.Join(outDir, "preview"+cfg.Format.Ext())
		if err := export.WriteImage(res.Preview, img, cfg.Format); err != nil {
			return fail(err)
		}
	}

	res.Success = true
	return res
}
