package vsfs

import (
	"fmt"
)

type checker struct {
	im       *Image
	problems []string
}

func (c *checker) errorf(format string, args ...interface{}) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

// Check verifies the consistency of the whole image: the superblock,
// inode and directory entry checksums, block pointer ranges, the root
// directory, and that a bitmap bit is set if and only if its inode or
// data block is in use. It returns a *CheckError listing all problems.
func (im *Image) Check() error {
	c := &checker{im: im}
	c.check()
	if len(c.problems) > 0 {
		return &CheckError{Problems: c.problems}
	}
	return nil
}

func (c *checker) check() {
	im := c.im
	sb := &im.sb

	if got, want := superblockChecksum(im.block(superblockBlock)), sb.Checksum; got != want {
		c.errorf("superblock checksum mismatch: got %#08x, want %#08x", got, want)
	}
	if sb.Version != Version {
		c.errorf("superblock version %d, want %d", sb.Version, Version)
	}

	ibm := im.inodeBitmap()
	dbm := im.dataBitmap()

	// Units referenced by the image structures, indexed like the bitmaps.
	inodeRefs := make([]int, sb.InodeCount)
	blockRefs := make([]int, sb.DataRegionBlocks)

	inodeRefs[RootInode-1]++
	for slot := uint64(0); slot < sb.InodeCount; slot++ {
		if !ibm.isSet(slot) {
			continue
		}
		ino, err := im.inode(slot)
		if err != nil {
			c.errorf("inode %d: %v", slot+1, err)
			continue
		}
		if got, want := ino.Checksum, inodeChecksum(im.inodeRecord(slot)); got != want {
			c.errorf("inode %d: checksum mismatch: got %#x, want %#x", slot+1, got, want)
		}
		switch {
		case ino.IsDir():
			if slot != RootInode-1 {
				c.errorf("inode %d: directory other than the root directory", slot+1)
			}
		case ino.IsRegular():
			if blocksFor(ino.Size) > DirectPointers {
				c.errorf("inode %d: size %d exceeds %d direct blocks", slot+1, ino.Size, DirectPointers)
			}
		default:
			c.errorf("inode %d: unknown mode %#o", slot+1, ino.Mode)
		}
		used := 0
		for i, ptr := range ino.Direct {
			if ptr == 0 {
				continue
			}
			blk := uint64(ptr)
			if !im.inDataRegion(blk) {
				c.errorf("inode %d: direct[%d] = %d outside of data region [%d, %d)",
					slot+1, i, blk, sb.DataRegionStart, sb.TotalBlocks)
				continue
			}
			blockRefs[blk-sb.DataRegionStart]++
			used++
		}
		if ino.IsRegular() && uint64(used) != blocksFor(ino.Size) {
			c.errorf("inode %d: %d blocks for %d bytes, want %d", slot+1, used, ino.Size, blocksFor(ino.Size))
		}
	}

	c.checkRoot(inodeRefs)

	for i, refs := range inodeRefs {
		if set := ibm.isSet(uint64(i)); set != (refs > 0) {
			c.errorf("inode bitmap bit %d is %v, inode has %d references", i, set, refs)
		}
	}
	for i, refs := range blockRefs {
		if refs > 1 {
			c.errorf("data block %d referenced %d times", sb.DataRegionStart+uint64(i), refs)
		}
		if set := dbm.isSet(uint64(i)); set != (refs > 0) {
			c.errorf("data bitmap bit %d (block %d) is %v, block has %d references",
				i, sb.DataRegionStart+uint64(i), set, refs)
		}
	}
}

func (c *checker) checkRoot(inodeRefs []int) {
	im := c.im
	root, dir, err := im.root()
	if err != nil {
		c.errorf("root directory: %v", err)
		return
	}
	names := make(map[string]bool)
	var entries, files uint64
	for slot := 0; slot < DirentsPerBlock; slot++ {
		rec := direntRecord(dir, slot)
		var de Dirent
		if err := get(rec, &de); err != nil {
			c.errorf("directory slot %d: %v", slot, err)
			continue
		}
		name := de.NameString()
		if slot < 2 {
			want := [...]string{".", ".."}[slot]
			if de.Inode != RootInode || de.Type != TypeDir || name != want {
				c.errorf("directory slot %d: got %q -> %d, want %q -> %d", slot, name, de.Inode, want, RootInode)
			}
		}
		if de.Inode == 0 {
			continue
		}
		entries++
		if got, want := de.Checksum, DirentChecksum(rec); got != want {
			c.errorf("directory entry %q: checksum mismatch: got %#02x, want %#02x", name, got, want)
		}
		if name == "" {
			c.errorf("directory slot %d: empty name", slot)
		}
		if de.Name[NameLen-1] != 0 {
			c.errorf("directory slot %d: name is not NUL-terminated", slot)
		}
		if names[name] {
			c.errorf("directory entry %q: duplicate name", name)
		}
		names[name] = true
		if de.Inode == RootInode {
			continue
		}
		if uint64(de.Inode) > im.sb.InodeCount {
			c.errorf("directory entry %q: inode %d out of range", name, de.Inode)
			continue
		}
		files++
		inodeRefs[de.Inode-1]++
		if de.Type != TypeFile {
			c.errorf("directory entry %q: type %d, want %d", name, de.Type, TypeFile)
		}
	}
	if got, want := root.Size, entries*DirentSize; got != want {
		c.errorf("root directory size %d, want %d for %d entries", got, want, entries)
	}
	if got, want := uint64(root.Links), 2+files; got != want {
		c.errorf("root directory link count %d, want %d", got, want)
	}
}
