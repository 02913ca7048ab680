package vsfs

import (
	"fmt"
	"time"
)

// DirEntry describes an occupied root directory entry.
type DirEntry struct {
	Name    string
	Inode   uint32
	Type    uint8
	Size    uint64
	ModTime time.Time
}

// IsDir reports whether the entry refers to a directory (“.” and “..”).
func (e DirEntry) IsDir() bool { return e.Type == TypeDir }

// ReadDir returns the occupied entries of the root directory in slot
// order, including “.” and “..”.
func (im *Image) ReadDir() ([]DirEntry, error) {
	_, dir, err := im.root()
	if err != nil {
		return nil, err
	}
	var entries []DirEntry
	for slot := 0; slot < DirentsPerBlock; slot++ {
		var de Dirent
		if err := get(direntRecord(dir, slot), &de); err != nil {
			return nil, err
		}
		if de.Inode == 0 {
			continue
		}
		if uint64(de.Inode) > im.sb.InodeCount {
			return nil, formatErrorf("entry %q refers to inode %d, image has %d",
				de.NameString(), de.Inode, im.sb.InodeCount)
		}
		ino, err := im.inode(uint64(de.Inode - 1))
		if err != nil {
			return nil, err
		}
		entries = append(entries, DirEntry{
			Name:    de.NameString(),
			Inode:   de.Inode,
			Type:    de.Type,
			Size:    ino.Size,
			ModTime: time.Unix(int64(ino.MTime), 0),
		})
	}
	return entries, nil
}

// ReadFile returns the content of the regular file name in the root
// directory.
func (im *Image) ReadFile(name string) ([]byte, error) {
	entries, err := im.ReadDir()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name != name {
			continue
		}
		if e.Type != TypeFile {
			return nil, fmt.Errorf("%q is not a regular file", name)
		}
		ino, err := im.inode(uint64(e.Inode - 1))
		if err != nil {
			return nil, err
		}
		need := blocksFor(ino.Size)
		if need > DirectPointers {
			return nil, formatErrorf("%q: size %d exceeds %d direct blocks", name, ino.Size, DirectPointers)
		}
		content := make([]byte, 0, ino.Size)
		for i := uint64(0); i < need; i++ {
			blk := uint64(ino.Direct[i])
			if !im.inDataRegion(blk) {
				return nil, formatErrorf("%q: block pointer %d outside of data region", name, blk)
			}
			n := ino.Size - uint64(len(content))
			if n > BlockSize {
				n = BlockSize
			}
			content = append(content, im.block(blk)[:n]...)
		}
		return content, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}
