package batch

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/h2non/filetype"

	"fbx-decoder/internal/fbx"
)

// binaryFBX is the filetype registered for binary containers; ASCII
// exports share the extension but not the magic.
var binaryFBX = filetype.NewType("fbx", "application/vnd.autodesk.fbx")

func init() {
	filetype.AddMatcher(binaryFBX, func(head []byte) bool {
		return len(head) >= len(fbx.Magic) && string(head[:len(fbx.Magic)]) == fbx.Magic
	})
}

// IsBinaryFBX reports whether head starts with the binary container magic.
func IsBinaryFBX(head []byte) bool {
	kind, err := filetype.Match(head)
	return err == nil && kind == binaryFBX
}

// Discover walks dir for *.fbx files and splits them into binary containers
// and files skipped because they are not binary (ASCII exports, renamed
// files). Both lists are sorted.
func Discover(dir string) (files, skipped []string, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".fbx") {
			return nil
		}
		ok, err := sniff(path)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		} else {
			skipped = append(skipped, path)
		}
		return nil
	})
	slices.Sort(files)
	slices.Sort(skipped)
	return files, skipped, err
}

func sniff(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, fbx.HeaderSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return IsBinaryFBX(head[:n]), nil
}
