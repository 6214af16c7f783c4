package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	cases := map[string]string{
		"c.json": `{"input_dir": "/in", "preview_size": 128, "load_uvs": false, "lenient": true}`,
		"c.toml": "input_dir = \"/in\"\npreview_size = 128\nload_uvs = false\nlenient = true\n",
		"c.yaml": "input_dir: /in\npreview_size: 128\nload_uvs: false\nlenient: true\n",
	}
	for name, content := range cases {
		cfg, err := Load(write(t, name, content))
		require.NoError(t, err, name)
		assert.Equal(t, "/in", cfg.InputDir, name)
		assert.Equal(t, 128, cfg.PreviewSize, name)
		assert.True(t, cfg.Lenient, name)
		require.NotNil(t, cfg.LoadUVs, name)
		assert.False(t, *cfg.LoadUVs, name)
		assert.Nil(t, cfg.LoadNormals, name)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(write(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "config: parse")

	_, err = Load(write(t, "c.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported extension")
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{InputDir: "/data/models"})

	assert.Equal(t, "/data/models", cfg.InputDir)
	assert.Equal(t, filepath.Join("/data/models", "fbx-out"), cfg.OutputDir)
	assert.True(t, *cfg.LoadUVs)
	assert.True(t, *cfg.LoadNormals)
	assert.True(t, *cfg.LoadMaterials)
	assert.True(t, *cfg.WritePLY)
	assert.True(t, *cfg.Preview)
	assert.Equal(t, 256, cfg.PreviewSize)
	assert.Equal(t, "webp", cfg.PreviewFormat)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, float32(0.9), cfg.FillRatio)
	assert.Equal(t, "default", cfg.Camera)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{InputDir: "/a", OutputDir: "out", Workers: 3, PreviewFormat: "png"}
	cfg.Resolve(Flags{Workers: 7, PreviewFormat: "tga", NoPreview: true, Lenient: true})

	assert.Equal(t, filepath.Join("/a", "out"), cfg.OutputDir, "relative output joins the input dir")
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "tga", cfg.PreviewFormat)
	assert.False(t, *cfg.Preview)
	assert.True(t, *cfg.WritePLY)
	assert.True(t, cfg.Lenient)
}

func TestResolveExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := Config{InputDir: "~/models"}
	cfg.Resolve(Flags{})
	assert.Equal(t, filepath.Join(home, "models"), cfg.InputDir)
}
