package vsfs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRange is returned for image parameters outside the accepted ranges.
	ErrRange = errors.New("parameter out of range")

	// ErrLayout is returned when an image would have no data region.
	ErrLayout = fmt.Errorf("%w: no room for data region", ErrRange)

	// ErrFormat is returned for images which are not valid vsfs images:
	// bad magic or block size, checksum mismatches, truncation and block
	// pointers outside of the data region.
	ErrFormat = errors.New("invalid vsfs image")

	// ErrCapacity is wrapped by errors for files which do not fit the
	// fixed-size structures of the format.
	ErrCapacity = errors.New("capacity exceeded")

	// ErrDirectoryFull is returned when the root directory has no free slot.
	ErrDirectoryFull = fmt.Errorf("%w: root directory is full", ErrCapacity)

	// ErrFileTooLarge is returned for files larger than MaxFileSize.
	ErrFileTooLarge = fmt.Errorf("%w: file exceeds %d direct blocks", ErrCapacity, DirectPointers)

	// ErrExists is returned when the root directory already has an entry
	// with the same name.
	ErrExists = errors.New("file already exists")

	// ErrInvalidName is returned for names which cannot be stored in a
	// directory entry.
	ErrInvalidName = errors.New("invalid file name")

	// ErrExhausted is wrapped by the allocation failure errors.
	ErrExhausted = errors.New("resources exhausted")

	// ErrNoInodes is returned when the inode bitmap has no free slot.
	ErrNoInodes = fmt.Errorf("%w: no free inode", ErrExhausted)

	// ErrNoSpace is returned when there are fewer free data blocks than a
	// file needs.
	ErrNoSpace = fmt.Errorf("%w: not enough free data blocks", ErrExhausted)

	// ErrNotFound is returned by ReadFile for names not in the root directory.
	ErrNotFound = errors.New("file not found")

	// ErrHostFull is returned when the file system an image is written to
	// runs out of space.
	ErrHostFull = errors.New("no space left on device")
)

// CheckError lists every problem Check found in an image.
type CheckError struct {
	Problems []string
}

func (e *CheckError) Error() string {
	if len(e.Problems) == 1 {
		return "vsfs check: " + e.Problems[0]
	}
	return fmt.Sprintf("vsfs check: %d problems:\n\t%s",
		len(e.Problems),
		strings.Join(e.Problems, "\n\t"))
}

// Unwrap makes errors.Is(err, ErrFormat) hold for check failures.
func (e *CheckError) Unwrap() error { return ErrFormat }

func formatErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}
