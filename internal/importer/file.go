package importer

import (
	"os"
	"path/filepath"
)

// File is an uploaded document. Name is only used to infer the format.
type File struct {
	Name string
	Data []byte
}

// ReadFile loads a local file.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return File{Name: filepath.Base(path), Data: data}, nil
}
