package vsfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// validateName checks that name can be stored in a directory entry.
func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	case len(name) > MaxNameLen:
		return fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidName, name, MaxNameLen)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\x00"):
		return fmt.Errorf("%w: %q contains '/' or NUL", ErrInvalidName, name)
	}
	return nil
}

// Add stores content as a regular file called name in the root
// directory, with all timestamps set to now.
//
// Nothing is modified unless Add succeeds: all checks and allocations
// are done before the image is touched.
func (im *Image) Add(name string, content []byte, now time.Time) error {
	root, dir, err := im.root()
	if err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	freeSlot := -1
	for slot := 0; slot < DirentsPerBlock; slot++ {
		var de Dirent
		if err := get(direntRecord(dir, slot), &de); err != nil {
			return err
		}
		if de.Inode == 0 {
			if freeSlot < 0 {
				freeSlot = slot
			}
			continue
		}
		if de.NameString() == name {
			return fmt.Errorf("%w: %q", ErrExists, name)
		}
	}
	if freeSlot < 0 {
		return ErrDirectoryFull
	}

	size := uint64(len(content))
	need := blocksFor(size)
	if need > DirectPointers {
		return fmt.Errorf("%w: %q needs %d blocks", ErrFileTooLarge, name, need)
	}

	ibm := im.inodeBitmap()
	slot, ok := ibm.findFree(im.sb.InodeCount)
	if !ok {
		return ErrNoInodes
	}
	dbm := im.dataBitmap()
	free, ok := dbm.findFreeN(im.sb.DataRegionBlocks, int(need))
	if !ok {
		return fmt.Errorf("%w: %q needs %d blocks", ErrNoSpace, name, need)
	}

	// All checks passed, mutate the image.
	ibm.set(slot)
	ts := uint64(now.Unix())
	ino := Inode{
		Mode:  ModeRegular,
		Links: 1,
		Size:  size,
		ATime: ts,
		MTime: ts,
		CTime: ts,
	}
	for i, rel := range free {
		dbm.set(rel)
		blk := im.sb.DataRegionStart + rel
		ino.Direct[i] = uint32(blk)
		data := im.block(blk)
		n := copy(data, content[uint64(i)*BlockSize:])
		clear(data[n:])
	}
	im.putInode(slot, &ino)

	de := newDirent(uint32(slot+1), TypeFile, name)
	putDirent(dir, freeSlot, &de)

	root.Size += DirentSize
	root.Links++
	root.MTime = ts
	im.putInode(RootInode-1, &root)
	return nil
}

// AddFile inserts the file at srcPath into the root directory of the
// image at imagePath, named after its base name, and writes the result
// to outPath. The image at imagePath is not modified (unless it is also
// outPath). On error, outPath is not written.
func AddFile(imagePath, srcPath, outPath string) error {
	im, err := Open(imagePath)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading file to add: %w", err)
	}
	if err := im.Add(filepath.Base(srcPath), content, time.Now()); err != nil {
		return err
	}
	return im.WriteFile(outPath)
}
