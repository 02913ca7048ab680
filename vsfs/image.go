package vsfs

import (
	"fmt"
	"os"
)

// Image is a vsfs image held entirely in memory. Modifications only
// become visible on disk once the image is written with WriteFile.
type Image struct {
	buf []byte
	sb  Superblock
}

// Open reads the image at path and validates its superblock. The file
// is opened read-only and closed before Open returns.
func Open(path string) (*Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	im, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return im, nil
}

// Parse validates the superblock of the image in b and returns an Image
// which owns b.
func Parse(b []byte) (*Image, error) {
	if len(b) == 0 || len(b)%BlockSize != 0 {
		return nil, formatErrorf("length %d is not a non-zero multiple of %d", len(b), BlockSize)
	}
	block := b[:BlockSize]
	var sb Superblock
	if err := get(block, &sb); err != nil {
		return nil, err
	}
	if sb.Magic != Magic {
		return nil, formatErrorf("bad magic %#08x", sb.Magic)
	}
	if sb.BlockSize != BlockSize {
		return nil, formatErrorf("unsupported block size %d", sb.BlockSize)
	}
	if got, want := superblockChecksum(block), sb.Checksum; got != want {
		return nil, formatErrorf("superblock checksum mismatch: got %#08x, want %#08x", got, want)
	}
	if got, want := uint64(len(b))/BlockSize, sb.TotalBlocks; got != want {
		return nil, formatErrorf("image has %d blocks, superblock says %d", got, want)
	}
	if err := sb.validate(); err != nil {
		return nil, err
	}
	return &Image{buf: b, sb: sb}, nil
}

// validate checks that the regions described by the superblock lie
// within the image, in order, and fit their bitmaps.
func (sb *Superblock) validate() error {
	const bitsPerBlock = BlockSize * 8
	regions := []struct {
		name          string
		start, blocks uint64
	}{
		{"inode bitmap", sb.InodeBitmapStart, sb.InodeBitmapBlocks},
		{"data bitmap", sb.DataBitmapStart, sb.DataBitmapBlocks},
		{"inode table", sb.InodeTableStart, sb.InodeTableBlocks},
		{"data region", sb.DataRegionStart, sb.DataRegionBlocks},
	}
	next := uint64(superblockBlock + 1)
	for _, r := range regions {
		if r.blocks == 0 || r.start < next || r.start+r.blocks > sb.TotalBlocks || r.start+r.blocks < r.start {
			return formatErrorf("%s [%d, +%d) out of place", r.name, r.start, r.blocks)
		}
		next = r.start + r.blocks
	}
	if sb.DataRegionStart+sb.DataRegionBlocks != sb.TotalBlocks {
		return formatErrorf("data region ends at block %d, image has %d blocks",
			sb.DataRegionStart+sb.DataRegionBlocks, sb.TotalBlocks)
	}
	if sb.InodeCount == 0 ||
		sb.InodeCount > sb.InodeBitmapBlocks*bitsPerBlock ||
		sb.InodeCount > sb.InodeTableBlocks*InodesPerBlock {
		return formatErrorf("inode count %d does not fit the inode bitmap and table", sb.InodeCount)
	}
	if sb.DataRegionBlocks > sb.DataBitmapBlocks*bitsPerBlock {
		return formatErrorf("%d data blocks do not fit the data bitmap", sb.DataRegionBlocks)
	}
	if sb.RootInode != RootInode {
		return formatErrorf("root inode %d, want %d", sb.RootInode, RootInode)
	}
	return nil
}

// Bytes returns the image contents. The returned slice aliases the
// image; it must not be modified.
func (im *Image) Bytes() []byte { return im.buf }

// Superblock returns a copy of the image superblock.
func (im *Image) Superblock() Superblock { return im.sb }

// Layout returns the layout metrics of the image.
func (im *Image) Layout() Layout { return im.sb.Layout() }

// Free returns the number of free inodes and free data blocks.
func (im *Image) Free() (inodes, blocks uint64) {
	inodes = im.sb.InodeCount - im.inodeBitmap().count(im.sb.InodeCount)
	blocks = im.sb.DataRegionBlocks - im.dataBitmap().count(im.sb.DataRegionBlocks)
	return inodes, blocks
}

// WriteFile writes the image to path. See the package-level WriteFile.
func (im *Image) WriteFile(path string) error {
	return WriteFile(path, im.buf)
}

func (im *Image) block(n uint64) []byte {
	return im.buf[n*BlockSize : (n+1)*BlockSize]
}

func (im *Image) inodeBitmap() bitmap {
	return bitmap(im.buf[im.sb.InodeBitmapStart*BlockSize : (im.sb.InodeBitmapStart+im.sb.InodeBitmapBlocks)*BlockSize])
}

func (im *Image) dataBitmap() bitmap {
	return bitmap(im.buf[im.sb.DataBitmapStart*BlockSize : (im.sb.DataBitmapStart+im.sb.DataBitmapBlocks)*BlockSize])
}

// inodeRecord returns the encoded inode in table slot.
func (im *Image) inodeRecord(slot uint64) []byte {
	off := im.sb.InodeTableStart*BlockSize + slot*InodeSize
	return im.buf[off : off+InodeSize]
}

func (im *Image) inode(slot uint64) (Inode, error) {
	var ino Inode
	err := get(im.inodeRecord(slot), &ino)
	return ino, err
}

// putInode finalizes the checksum of ino and stores it in table slot.
func (im *Image) putInode(slot uint64, ino *Inode) {
	rec := im.inodeRecord(slot)
	ino.Checksum = 0
	put(rec, ino)
	ino.Checksum = inodeChecksum(rec)
	put(rec, ino)
}

// inDataRegion reports whether the absolute block number blk is a data
// block.
func (im *Image) inDataRegion(blk uint64) bool {
	return blk >= im.sb.DataRegionStart && blk < im.sb.TotalBlocks
}

// root returns the root directory inode and its directory block.
func (im *Image) root() (Inode, []byte, error) {
	root, err := im.inode(RootInode - 1)
	if err != nil {
		return Inode{}, nil, err
	}
	if got, want := root.Checksum, inodeChecksum(im.inodeRecord(RootInode-1)); got != want {
		return Inode{}, nil, formatErrorf("root inode checksum mismatch: got %#x, want %#x", got, want)
	}
	if !root.IsDir() {
		return Inode{}, nil, formatErrorf("root inode mode %#o is not a directory", root.Mode)
	}
	blk := uint64(root.Direct[0])
	if blk == 0 {
		return Inode{}, nil, formatErrorf("root directory has no data block")
	}
	if !im.inDataRegion(blk) {
		return Inode{}, nil, formatErrorf("root directory block %d outside of data region [%d, %d)",
			blk, im.sb.DataRegionStart, im.sb.TotalBlocks)
	}
	return root, im.block(blk), nil
}

func direntRecord(dir []byte, slot int) []byte {
	return dir[slot*DirentSize : (slot+1)*DirentSize]
}

// putDirent finalizes the checksum of de and stores it in directory slot.
func putDirent(dir []byte, slot int, de *Dirent) {
	rec := direntRecord(dir, slot)
	de.Checksum = 0
	put(rec, de)
	de.Checksum = DirentChecksum(rec)
	rec[direntChecksumOffset] = de.Checksum
}
