package rewrite

import (
	"errors"
	"fmt"
)

// ErrDecode is wrapped by every decode failure.
var ErrDecode = errors.New("content is not valid UTF-8")

// ErrorKind separates failures reading or writing a file from content that
// cannot be decoded as text.
type ErrorKind string

const (
	KindIO     ErrorKind = "io"
	KindDecode ErrorKind = "decode"
)

// FileError is a failure confined to a single file. The caller skips the file
// and keeps going.
type FileError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func ioError(path string, err error) error {
	return &FileError{Path: path, Kind: KindIO, Err: err}
}

func decodeError(path string, err error) error {
	return &FileError{Path: path, Kind: KindDecode, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
}
