package repository

import (
	"fmt"
	"os"

	"github.com/google/renameio/v2"
)

// WriteFile replaces path with data. With atomic set the data goes to a
// temporary file in the same directory that is renamed over path, so a failed
// write leaves the previous contents intact.
func WriteFile(path string, data []byte, atomic bool) error {
	var err error
	if atomic {
		err = renameio.WriteFile(path, data, 0o600)
	} else {
		err = os.WriteFile(path, data, 0o600)
	}
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStoreIO, path, err)
	}
	return nil
}

// ReadFile reads path. A missing file is reported with ok=false and no error.
func ReadFile(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %s: %w", ErrStoreIO, path, err)
	}
	return data, true, nil
}
