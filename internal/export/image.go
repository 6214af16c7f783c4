package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// ImageFormat selects the preview encoder.
type ImageFormat string

const (
	WebP ImageFormat = "webp"
	TGA  ImageFormat = "tga"
	PNG  ImageFormat = "png"
)

// ParseImageFormat accepts a format name or file extension, case-insensitively.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case WebP, TGA, PNG:
		return f, nil
	}
	return "", fmt.Errorf("export: unknown image format %q", s)
}

// Ext returns the file extension including the dot.
func (f ImageFormat) Ext() string { return "." + string(f) }

// EncodeImage writes img in the given format.
func EncodeImage(w io.Writer, img image.Image, f ImageFormat) error {
	var err error
	switch f {
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	case PNG:
		err = png.Encode(w, img)
	default:
		return fmt.Errorf("export: unknown image format %q", f)
	}
	if err != nil {
		return fmt.Errorf("export: %s encode: %w", f, err)
	}
	return nil
}

// WriteImage creates path (and its directory) and encodes img into it.
func WriteImage(path string, img image.Image, f ImageFormat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := EncodeImage(out, img, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
