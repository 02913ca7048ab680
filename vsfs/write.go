package vsfs

import (
	"fmt"

	"github.com/google/renameio/v2"
)

// WriteFile writes the image b to path. The image is written to a
// temporary file in the same directory which then replaces path, so
// path either keeps its previous content or holds the complete image.
func WriteFile(path string, b []byte) error {
	if err := renameio.WriteFile(path, b, 0644); err != nil {
		if isNoSpace(err) {
			return fmt.Errorf("writing %s: %w", path, ErrHostFull)
		}
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
