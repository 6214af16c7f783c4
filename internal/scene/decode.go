// Package scene reconstructs models, meshes, materials and textures from a
// decoded container node tree.
package scene

import (
	"log/slog"

	"fbx-decoder/internal/fbx"
)

// Options controls scene decoding.
type Options struct {
	Flags   Flags
	Lenient bool         // recover from size mismatches, odd shading models and unknown slots
	Logger  *slog.Logger // nil uses slog.Default()
}

// DefaultOptions loads everything in strict mode.
func DefaultOptions() Options {
	return Options{Flags: LoadAll}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Load reads the file at path and decodes it. Unreadable or empty files
// fail with *fbx.IOError.
func Load(path string, opts Options) (*Scene, error) {
	data, err := fbx.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, opts)
}

// Decode parses a container held in memory and builds its scene.
func Decode(data []byte, opts Options) (*Scene, error) {
	dopts := []fbx.DecodeOption{fbx.WithLogger(opts.logger())}
	if opts.Lenient {
		dopts = append(dopts, fbx.Lenient())
	}
	doc, err := fbx.Decode(data, dopts...)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts)
}

// FromDocument builds the scene of an already decoded node tree.
func FromDocument(doc *fbx.Document, opts Options) (*Scene, error) {
	e := &extractor{
		doc:   doc,
		opts:  opts,
		log:   opts.logger(),
		scene: &Scene{Version: doc.Version},
	}
	if err := e.objects(); err != nil {
		return nil, err
	}
	if err := e.connections(); err != nil {
		return nil, err
	}
	return e.scene, nil
}
