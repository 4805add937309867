package model

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SelectedFile is the file currently chosen by the user.
type SelectedFile struct {
	Name string
	Size int64

	// Path is set when the content lives on the local filesystem.
	Path string

	open func() (io.ReadCloser, error)
}

// NewSelectedFileFromPath stats path and returns a file whose content is read
// lazily at upload time.
func NewSelectedFileFromPath(path string) (*SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &SelectedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// NewSelectedFileFromBytes wraps in-memory content.
func NewSelectedFileFromBytes(name string, data []byte) *SelectedFile {
	return &SelectedFile{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Open returns a reader over the file content.
func (f *SelectedFile) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	return f.open()
}

// Extension returns the lower-cased last dot segment of the name, or "" when
// the name has no dot.
func (f *SelectedFile) Extension() string {
	return ExtensionOf(f.Name)
}

// OutputName derives the download name for a conversion into target.
func (f *SelectedFile) OutputName(target string) string {
	return OutputFileName(f.Name, target)
}

// ExtensionOf returns the lower-cased extension of name without the dot.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// OutputFileName strips the last dot segment (dot included) from name and
// appends "." + target. Names without a dot keep their full text as base.
func OutputFileName(name, target string) string {
	base := name
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		base = name[:idx]
	}
	return base + "." + strings.TrimPrefix(target, ".")
}
