package vsfs

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Byte offsets of the timestamp fields within their records.
const (
	superblockMTimeOffset = 100
	inodeTimesOffset      = 20 // atime, mtime, ctime
)

// Digest returns a BLAKE2b-256 hash of the image which ignores
// timestamps: the superblock creation time, the inode times and the
// checksums covering them are hashed as zero. Images built from the same
// parameters and the same sequence of added files have the same digest.
func (im *Image) Digest() [blake2b.Size256]byte {
	b := make([]byte, len(im.buf))
	copy(b, im.buf)

	sb := b[:BlockSize]
	binary.LittleEndian.PutUint64(sb[superblockMTimeOffset:], 0)
	binary.LittleEndian.PutUint32(sb[superblockChecksumOffset:], 0)

	table := b[im.sb.InodeTableStart*BlockSize:]
	for slot := uint64(0); slot < im.sb.InodeCount; slot++ {
		rec := table[slot*InodeSize : (slot+1)*InodeSize]
		clear(rec[inodeTimesOffset : inodeTimesOffset+24])
		clear(rec[inodeChecksumOffset:])
	}
	return blake2b.Sum256(b)
}
