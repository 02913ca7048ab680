package vsfs

import (
	"time"
)

// Format returns a new image of sizeKiB kibibytes with inodes inode
// table slots, holding an empty root directory. All timestamps are set
// to now.
func Format(sizeKiB, inodes int, now time.Time) ([]byte, error) {
	l, err := NewLayout(sizeKiB, inodes)
	if err != nil {
		return nil, err
	}
	im := &Image{
		buf: make([]byte, l.Bytes()),
		sb:  l.superblock(now),
	}

	// The root inode and its directory block are the first units of their
	// bitmaps.
	im.inodeBitmap().set(RootInode - 1)
	im.dataBitmap().set(0)

	ts := uint64(now.Unix())
	root := Inode{
		Mode:  ModeDir,
		Links: 2,
		Size:  2 * DirentSize,
		ATime: ts,
		MTime: ts,
		CTime: ts,
	}
	root.Direct[0] = uint32(l.DataRegionStart)
	im.putInode(RootInode-1, &root)

	dir := im.block(l.DataRegionStart)
	dot := newDirent(RootInode, TypeDir, ".")
	putDirent(dir, 0, &dot)
	dotdot := newDirent(RootInode, TypeDir, "..") // the root is its own parent
	putDirent(dir, 1, &dotdot)

	im.putSuperblock()
	return im.buf, nil
}

// Create formats a new image and writes it to path.
func Create(path string, sizeKiB, inodes int) error {
	b, err := Format(sizeKiB, inodes, time.Now())
	if err != nil {
		return err
	}
	return WriteFile(path, b)
}

// putSuperblock stores the superblock and finalizes its checksum. It must
// be called after every other superblock field is set.
func (im *Image) putSuperblock() {
	block := im.block(superblockBlock)
	im.sb.Checksum = 0
	put(block, &im.sb)
	im.sb.Checksum = superblockChecksum(block)
	put(block, &im.sb)
}
