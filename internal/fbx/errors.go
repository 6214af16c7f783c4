package fbx

import (
	"errors"
	"fmt"
)

// FormatError reports content that does not follow the container format:
// bad magic, unknown property tags, node size mismatches, corrupt arrays and
// anything else that cannot be interpreted.
type FormatError struct {
	Offset int64  // byte offset in the file image, -1 if unknown
	Path   string // node path such as "Objects/Geometry", may be empty
	Msg    string
	Err    error // underlying cause, may be nil
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return (&FormatError{Offset: e.Offset, Path: e.Path, Msg: e.Msg + ": " + e.Err.Error()}).Error()
	}
	switch {
	case e.Path != "" && e.Offset >= 0:
		return fmt.Sprintf("fbx: %s (node %s, offset %d)", e.Msg, e.Path, e.Offset)
	case e.Path != "":
		return fmt.Sprintf("fbx: %s (node %s)", e.Msg, e.Path)
	case e.Offset >= 0:
		return fmt.Sprintf("fbx: %s (offset %d)", e.Msg, e.Offset)
	}
	return "fbx: " + e.Msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// TruncatedInputError reports a structure that extends past the end of the buffer.
type TruncatedInputError struct {
	Offset int64
	Need   int64
	Have   int64
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("fbx: truncated input at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

// IOError reports a file that could not be read or is empty.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fbx: read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ErrEmptyFile is wrapped by an IOError when the input has no content.
var ErrEmptyFile = errors.New("empty file")

// Formatf builds a FormatError without position information.
func Formatf(format string, args ...any) *FormatError {
	return &FormatError{Offset: -1, Msg: fmt.Sprintf(format, args...)}
}

// IsFormatError reports whether err carries a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsTruncated reports whether err carries a TruncatedInputError.
func IsTruncated(err error) bool {
	var te *TruncatedInputError
	return errors.As(err, &te)
}
