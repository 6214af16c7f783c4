package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbx-decoder/internal/export"
	. "fbx-decoder/internal/fbx/fbxtest"
	"fbx-decoder/internal/mathutil"
	"fbx-decoder/internal/scene"
)

func cube(name string) []byte {
	return Encode(7400,
		N("Objects", nil,
			N("Model", P(Int64(1), String(name+"\x00\x01Model"), String("Mesh"))),
			N("Geometry", P(Int64(2), String(name+"\x00\x01Geometry"), String("Mesh")),
				N("Vertices", P(Float64Array([]float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0, 0, 0, 1}, true))),
				N("PolygonVertexIndex", P(Int32Array([]int32{0, 1, 2, ^3, 0, 1, ^4}, false))),
			),
		),
		N("Connections", nil, N("C", P(String("OO"), Int64(2), Int64(1)))),
	)
}

func testConfig(t *testing.T, in string) Config {
	return Config{
		InputDir:    in,
		OutputDir:   filepath.Join(t.TempDir(), "out"),
		Decode:      scene.DefaultOptions(),
		WritePLY:    true,
		Preview:     true,
		PreviewSize: 32,
		Supersample: 2,
		FillRatio:   0.9,
		Format:      export.PNG,
		View:        mathutil.ViewDefault,
		Workers:     2,
		Quiet:       true,
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.fbx"), cube("B"))
	writeFile(t, filepath.Join(dir, "sub", "a.FBX"), cube("A"))
	writeFile(t, filepath.Join(dir, "ascii.fbx"), []byte("; FBX 7.4.0 project file\nFBXHeaderExtension:  {\n"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("x"))

	files, skipped, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.fbx"), filepath.Join(dir, "sub", "a.FBX")}, files)
	assert.Equal(t, []string{filepath.Join(dir, "ascii.fbx")}, skipped)
}

func TestIsBinaryFBX(t *testing.T) {
	assert.True(t, IsBinaryFBX(cube("X")[:27]))
	assert.False(t, IsBinaryFBX([]byte("Kaydara")))
	assert.False(t, IsBinaryFBX(nil))
}

func TestRunAndManifest(t *testing.T) {
	in := t.TempDir()
	good := filepath.Join(in, "sub", "cube.fbx")
	bad := filepath.Join(in, "broken.fbx")
	writeFile(t, good, cube("Cube"))
	data := cube("Broken")
	writeFile(t, bad, data[:len(data)-30])

	cfg := testConfig(t, in)
	results := Run(cfg, []string{good, bad})
	require.Len(t, results, 2)

	r := results[0]
	require.True(t, r.Success, r.Error)
	assert.Equal(t, 1, r.Models)
	assert.Equal(t, 1, r.Meshes)
	assert.Equal(t, 3, r.Triangles)
	outDir := filepath.Join(cfg.OutputDir, "sub", "cube")
	assert.Equal(t, []string{filepath.Join(outDir, "Cube_0.ply")}, r.PLYs)
	assert.Equal(t, filepath.Join(outDir, "preview.png"), r.Preview)
	assert.FileExists(t, r.Preview)
	assert.FileExists(t, r.PLYs[0])

	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "truncated")

	path, err := WriteManifest(cfg, results)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "sub/cube.fbx", entries[0].File)
	assert.Equal(t, []string{"sub/cube/Cube_0.ply"}, entries[0].PLY)
	assert.Equal(t, "sub/cube/preview.png", entries[0].Preview)
	assert.NotEmpty(t, entries[1].Error)
}

func TestProcessFileOutputsDisabled(t *testing.T) {
	in := t.TempDir()
	file := filepath.Join(in, "cube.fbx")
	writeFile(t, file, cube("Cube"))

	cfg := testConfig(t, in)
	cfg.WritePLY, cfg.Preview = false, false
	r := ProcessFile(cfg, file)
	require.True(t, r.Success, r.Error)
	assert.Empty(t, r.PLYs)
	assert.Empty(t, r.Preview)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestWatchConvertsNewFiles(t *testing.T) {
	in := t.TempDir()
	cfg := testConfig(t, in)
	cfg.Preview = false

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan Result, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, cfg, func(r Result) {
			got <- r
			cancel()
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(in, "late.fbx"), cube("Late"))

	select {
	case r := <-got:
		assert.True(t, r.Success, r.Error)
		assert.Len(t, r.PLYs, 1)
	case <-ctx.Done():
		t.Fatal("no conversion before timeout")
	}
	require.NoError(t, <-errc)
}
