package metadata

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// A named declaration resource does not exist.
	ErrResourceNotFound = errors.New("declaration resource not found")
	// A declaration resource exists but could not be read to completion.
	ErrIO = errors.New("declaration resource unreadable")
	// Declaration text is not valid under the grammar.
	ErrParse = errors.New("declaration text malformed")
)

// Opens the named resource and reads it into a Tree.
// A missing resource fails with ErrResourceNotFound; other failures wrap ErrIO or ErrParse.
func ReadResource(resources fs.FS, name string) (*Tree, error) {
	file, err := resources.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, name, err)
	}
	defer file.Close()

	return Read(name, file)
}
