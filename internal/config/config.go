package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the converter paths, decode switches and preview settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir" toml:"input_dir" yaml:"input_dir"`
	OutputDir string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`

	// Decoding
	Lenient       bool  `json:"lenient" toml:"lenient" yaml:"lenient"`
	LoadUVs       *bool `json:"load_uvs" toml:"load_uvs" yaml:"load_uvs"`
	LoadNormals   *bool `json:"load_normals" toml:"load_normals" yaml:"load_normals"`
	LoadMaterials *bool `json:"load_materials" toml:"load_materials" yaml:"load_materials"`

	// Outputs
	WritePLY      *bool   `json:"write_ply" toml:"write_ply" yaml:"write_ply"`
	Preview       *bool   `json:"preview" toml:"preview" yaml:"preview"`
	PreviewSize   int     `json:"preview_size" toml:"preview_size" yaml:"preview_size"`
	PreviewFormat string  `json:"preview_format" toml:"preview_format" yaml:"preview_format"`
	Supersample   int     `json:"supersample" toml:"supersample" yaml:"supersample"`
	FillRatio     float32 `json:"fill_ratio" toml:"fill_ratio" yaml:"fill_ratio"`
	Camera        string  `json:"camera" toml:"camera" yaml:"camera"`

	Workers int `json:"workers" toml:"workers" yaml:"workers"`
}

// Load reads a JSON, TOML or YAML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json", "":
		err = json.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir      string
	OutputDir     string
	PreviewFormat string
	Camera        string
	Workers       int
	PreviewSize   int
	Lenient       bool
	NoPreview     bool
	NoPLY         bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.PreviewFormat != "" {
		c.PreviewFormat = flags.PreviewFormat
	}
	if flags.Camera != "" {
		c.Camera = flags.Camera
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PreviewSize > 0 {
		c.PreviewSize = flags.PreviewSize
	}
	if flags.Lenient {
		c.Lenient = true
	}
	if flags.NoPreview {
		c.Preview = boolPtr(false)
	}
	if flags.NoPLY {
		c.WritePLY = boolPtr(false)
	}

	if c.InputDir == "" {
		c.InputDir = "."
	}
	c.InputDir = expand(c.InputDir)
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "fbx-out")
	} else if c.OutputDir = expand(c.OutputDir); !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	for _, b := range []**bool{&c.LoadUVs, &c.LoadNormals, &c.LoadMaterials, &c.WritePLY, &c.Preview} {
		if *b == nil {
			*b = boolPtr(true)
		}
	}

	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.PreviewFormat == "" {
		c.PreviewFormat = "webp"
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.9
	}
	if c.Camera == "" {
		c.Camera = "default"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// expand resolves a leading ~; paths it cannot expand are returned as is.
func expand(p string) string {
	if e, err := homedir.Expand(p); err == nil {
		return e
	}
	return p
}

func boolPtr(b bool) *bool { return &b }
