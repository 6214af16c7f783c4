package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one converted file in the output manifest.
// Paths are relative to the output directory.
type ManifestEntry struct {
	File      string   `json:"file"`
	Models    int      `json:"models"`
	Meshes    int      `json:"meshes"`
	Materials int      `json:"materials"`
	Triangles int      `json:"triangles"`
	PLY       []string `json:"ply,omitempty"`
	Preview   string   `json:"preview,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// WriteManifest writes manifest.json describing results into cfg.OutputDir.
func WriteManifest(cfg Config, results []Result) (string, error) {
	rel := func(p string) string {
		if r, err := filepath.Rel(cfg.OutputDir, p); err == nil {
			return filepath.ToSlash(r)
		}
		return p
	}

	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		e := ManifestEntry{
			File:      r.File,
			Models:    r.Models,
			Meshes:    r.Meshes,
			Materials: r.Materials,
			Triangles: r.Triangles,
			Error:     r.Error,
		}
		if in, err := filepath.Rel(cfg.InputDir, r.File); err == nil {
			e.File = filepath.ToSlash(in)
		}
		for _, p := range r.PLYs {
			e.PLY = append(e.PLY, rel(p))
		}
		if r.Preview != "" {
			e.Preview = rel(r.Preview)
		}
		entries[i] = e
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(cfg.OutputDir, "manifest.json")
	return path, os.WriteFile(path, data, 0o644)
}
