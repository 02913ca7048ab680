package vsfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	// BlockSize is the size of every block in an image, in bytes.
	BlockSize = 4096

	// Magic identifies a vsfs superblock.
	Magic = uint32(0x4D565346)

	// Version is the only format version this package reads and writes.
	Version = uint32(1)

	// RootInode is the inode number of the root directory. Inode numbers
	// are 1-based, so the root directory lives in inode table slot 0.
	RootInode = 1

	// InodeSize is the size of an inode record in the inode table.
	InodeSize = 128

	// InodesPerBlock is the number of inode records per inode table block.
	InodesPerBlock = BlockSize / InodeSize

	// DirentSize is the size of a directory entry record.
	DirentSize = 64

	// DirentsPerBlock is the number of directory entries per directory block,
	// which is also the maximum number of entries in the root directory.
	DirentsPerBlock = BlockSize / DirentSize

	// DirectPointers is the number of direct block pointers per inode, which
	// limits files to DirectPointers*BlockSize bytes.
	DirectPointers = 12

	// MaxFileSize is the largest file which can be stored in an image.
	MaxFileSize = DirectPointers * BlockSize

	// NameLen is the size of the name field of a directory entry. Names are
	// NUL-terminated, so at most NameLen-1 bytes are usable.
	NameLen = 58

	// MaxNameLen is the longest file name which can be stored.
	MaxNameLen = NameLen - 1
)

// Image creation parameter ranges.
const (
	MinSizeKiB = 180
	MaxSizeKiB = 4096
	MinInodes  = 128
	MaxInodes  = 512
)

// Fixed block positions of the metadata which precedes the inode table.
const (
	superblockBlock  = 0
	inodeBitmapBlock = 1
	dataBitmapBlock  = 2
	inodeTableBlock  = 3
)

// Mode bits, as in st_mode.
const (
	ModeDir     = uint16(0040000)
	ModeRegular = uint16(0100000)
	modeType    = uint16(0170000)
)

// Directory entry types.
const (
	TypeFile = uint8(1)
	TypeDir  = uint8(2)
)

// Byte offsets of the checksum fields within their records.
const (
	superblockChecksumOffset = 112
	inodeChecksumOffset      = 120
	direntChecksumOffset     = 63
)

// Superblock is the record stored at the start of block 0.
type Superblock struct {
	Magic     uint32
	Version   uint32
	BlockSize uint32

	TotalBlocks uint64
	InodeCount  uint64

	InodeBitmapStart  uint64
	InodeBitmapBlocks uint64
	DataBitmapStart   uint64
	DataBitmapBlocks  uint64
	InodeTableStart   uint64
	InodeTableBlocks  uint64
	DataRegionStart   uint64
	DataRegionBlocks  uint64

	RootInode uint64
	MTime     uint64 // creation time, seconds since the epoch
	Flags     uint32
	Checksum  uint32
}

// Layout returns the layout metrics recorded in the superblock.
func (sb *Superblock) Layout() Layout {
	return Layout{
		TotalBlocks:      sb.TotalBlocks,
		InodeCount:       sb.InodeCount,
		InodeTableBlocks: sb.InodeTableBlocks,
		DataRegionStart:  sb.DataRegionStart,
		DataRegionBlocks: sb.DataRegionBlocks,
	}
}

// Inode is a 128 byte inode table record.
type Inode struct {
	Mode  uint16
	Links uint16
	UID   uint32
	GID   uint32
	Size  uint64

	ATime uint64
	MTime uint64
	CTime uint64

	// Direct holds absolute block numbers; 0 marks an unused pointer.
	Direct [DirectPointers]uint32

	Reserved   [3]uint32
	ProjID     uint32
	UID16GID16 uint32
	XattrPtr   uint64

	// Checksum is the CRC-32 of the preceding 120 bytes, zero-extended.
	Checksum uint64
}

// IsDir reports whether the inode describes a directory.
func (ino *Inode) IsDir() bool { return ino.Mode&modeType == ModeDir }

// IsRegular reports whether the inode describes a regular file.
func (ino *Inode) IsRegular() bool { return ino.Mode&modeType == ModeRegular }

// Dirent is a 64 byte directory entry record.
type Dirent struct {
	Inode    uint32 // 0 marks a free slot
	Type     uint8
	Name     [NameLen]byte
	Checksum uint8 // XOR of the preceding 63 bytes
}

// NameString returns the entry name up to the first NUL byte.
func (de *Dirent) NameString() string {
	if idx := bytes.IndexByte(de.Name[:], 0); idx > -1 {
		return string(de.Name[:idx])
	}
	return string(de.Name[:])
}

func newDirent(ino uint32, typ uint8, name string) Dirent {
	de := Dirent{
		Inode: ino,
		Type:  typ,
	}
	copy(de.Name[:MaxNameLen], name)
	return de
}

// Layout describes where the regions of an image are located. All values
// are derived from the image size and inode count.
type Layout struct {
	TotalBlocks      uint64
	InodeCount       uint64
	InodeTableBlocks uint64
	DataRegionStart  uint64
	DataRegionBlocks uint64
}

// NewLayout computes the layout of an image of sizeKiB kibibytes with
// inodes inode table slots.
func NewLayout(sizeKiB, inodes int) (Layout, error) {
	if sizeKiB < MinSizeKiB || sizeKiB > MaxSizeKiB || sizeKiB%(BlockSize/1024) != 0 {
		return Layout{}, fmt.Errorf("%w: size %d KiB must be a multiple of %d in [%d, %d]",
			ErrRange, sizeKiB, BlockSize/1024, MinSizeKiB, MaxSizeKiB)
	}
	if inodes < MinInodes || inodes > MaxInodes {
		return Layout{}, fmt.Errorf("%w: inode count %d must be in [%d, %d]",
			ErrRange, inodes, MinInodes, MaxInodes)
	}
	return layoutFor(uint64(sizeKiB)/(BlockSize/1024), uint64(inodes))
}

func layoutFor(totalBlocks, inodes uint64) (Layout, error) {
	tableBlocks := (inodes + InodesPerBlock - 1) / InodesPerBlock
	dataStart := inodeTableBlock + tableBlocks
	if totalBlocks <= dataStart {
		return Layout{}, fmt.Errorf("%w: %d blocks leave no room for data after block %d",
			ErrLayout, totalBlocks, dataStart)
	}
	return Layout{
		TotalBlocks:      totalBlocks,
		InodeCount:       inodes,
		InodeTableBlocks: tableBlocks,
		DataRegionStart:  dataStart,
		DataRegionBlocks: totalBlocks - dataStart,
	}, nil
}

// Bytes returns the size of the image in bytes.
func (l Layout) Bytes() int64 {
	return int64(l.TotalBlocks) * BlockSize
}

// superblock returns a superblock for the layout. The checksum is not set.
func (l Layout) superblock(created time.Time) Superblock {
	return Superblock{
		Magic:             Magic,
		Version:           Version,
		BlockSize:         BlockSize,
		TotalBlocks:       l.TotalBlocks,
		InodeCount:        l.InodeCount,
		InodeBitmapStart:  inodeBitmapBlock,
		InodeBitmapBlocks: 1,
		DataBitmapStart:   dataBitmapBlock,
		DataBitmapBlocks:  1,
		InodeTableStart:   inodeTableBlock,
		InodeTableBlocks:  l.InodeTableBlocks,
		DataRegionStart:   l.DataRegionStart,
		DataRegionBlocks:  l.DataRegionBlocks,
		RootInode:         RootInode,
		MTime:             uint64(created.Unix()),
	}
}

// put encodes the fixed-size record v at the start of b.
func put(b []byte, v interface{}) {
	var buf bytes.Buffer
	// writing fixed-size values to a bytes.Buffer never fails
	binary.Write(&buf, binary.LittleEndian, v)
	copy(b, buf.Bytes())
}

// get decodes the fixed-size record v from the start of b.
func get(b []byte, v interface{}) error {
	return binary.Read(bytes.NewReader(b), binary.LittleEndian, v)
}

// blocksFor returns the number of blocks needed to hold size bytes.
func blocksFor(size uint64) uint64 {
	return (size + BlockSize - 1) / BlockSize
}
