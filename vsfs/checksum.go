package vsfs

import (
	"hash/crc32"
)

// crcTable is the reflected IEEE table (polynomial 0xEDB88320). It is
// built once and only ever read afterwards.
var crcTable = crc32.MakeTable(crc32.IEEE)

var zeroChecksum [4]byte

// Checksum returns the CRC-32 of b, with an initial and final XOR of
// 0xFFFFFFFF.
func Checksum(b []byte) uint32 {
	return crc32.Checksum(b, crcTable)
}

// superblockChecksum returns the checksum of the superblock block b: the
// CRC of the first BlockSize-4 bytes, with the checksum field treated as
// zero.
func superblockChecksum(b []byte) uint32 {
	crc := crc32.Update(0, crcTable, b[:superblockChecksumOffset])
	crc = crc32.Update(crc, crcTable, zeroChecksum[:])
	return crc32.Update(crc, crcTable, b[superblockChecksumOffset+4:BlockSize-4])
}

// inodeChecksum returns the checksum of the encoded inode record b, which
// covers everything before the trailing checksum field.
func inodeChecksum(b []byte) uint64 {
	return uint64(Checksum(b[:inodeChecksumOffset]))
}

// DirentChecksum returns the XOR of the first 63 bytes of the encoded
// directory entry b.
func DirentChecksum(b []byte) uint8 {
	var x uint8
	for _, c := range b[:direntChecksumOffset] {
		x ^= c
	}
	return x
}
