// Package vsfs implements formatting and extending vsfs file system
// images, a deliberately small block file system format: a superblock,
// one inode bitmap block, one data bitmap block, an inode table and a
// data region, all in 4096 byte blocks.
//
// Images only have a root directory, which occupies a single block and
// therefore holds at most 64 entries (including “.” and “..”). Files are
// addressed with 12 direct block pointers, i.e. their size is limited to
// 48 KiB.
//
// Every modification is staged in an in-memory copy of the whole image
// and written out in one go, so there is no partially written state.
package vsfs
