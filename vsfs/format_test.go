package vsfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mustFormat(t *testing.T, sizeKiB, inodes int) *Image {
	t.Helper()
	b, err := Format(sizeKiB, inodes, testTime)
	if err != nil {
		t.Fatal(err)
	}
	im, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	return im
}

func TestFormat(t *testing.T) {
	t.Parallel()

	im := mustFormat(t, 1024, 128)
	if got, want := len(im.Bytes()), 1024*1024; got != want {
		t.Fatalf("image is %d bytes, want %d", got, want)
	}
	if err := im.Check(); err != nil {
		t.Fatal(err)
	}

	sb := im.Superblock()
	if got, want := sb.DataRegionStart, sb.InodeTableStart+sb.InodeTableBlocks; got != want {
		t.Errorf("data region starts at %d, want %d (right after the inode table)", got, want)
	}
	if got, want := sb.MTime, uint64(testTime.Unix()); got != want {
		t.Errorf("superblock mtime = %d, want %d", got, want)
	}

	root, err := im.inode(0)
	if err != nil {
		t.Fatal(err)
	}
	ts := uint64(testTime.Unix())
	want := Inode{
		Mode:  ModeDir,
		Links: 2,
		Size:  2 * DirentSize,
		ATime: ts,
		MTime: ts,
		CTime: ts,
	}
	want.Direct[0] = 7
	want.Checksum = root.Checksum
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("unexpected root inode: diff (-want +got):\n%s", diff)
	}

	entries, err := im.ReadDir()
	if err != nil {
		t.Fatal(err)
	}
	wantEntries := []DirEntry{
		{Name: ".", Inode: 1, Type: TypeDir, Size: 128, ModTime: time.Unix(int64(ts), 0)},
		{Name: "..", Inode: 1, Type: TypeDir, Size: 128, ModTime: time.Unix(int64(ts), 0)},
	}
	if diff := cmp.Diff(wantEntries, entries); diff != "" {
		t.Errorf("unexpected root directory: diff (-want +got):\n%s", diff)
	}

	if got := im.Bytes()[1*BlockSize]; got != 0x01 {
		t.Errorf("inode bitmap byte 0 = %#02x, want 0x01", got)
	}
	if got := im.Bytes()[2*BlockSize]; got != 0x01 {
		t.Errorf("data bitmap byte 0 = %#02x, want 0x01", got)
	}
	inodes, blocks := im.Free()
	if inodes != 127 || blocks != 248 {
		t.Errorf("Free() = %d inodes, %d blocks, want 127, 248", inodes, blocks)
	}
}

func TestFormatRange(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct{ sizeKiB, inodes int }{
		{0, 128},
		{1023, 128},
		{1024, 0},
		{8192, 128},
	} {
		if _, err := Format(tt.sizeKiB, tt.inodes, testTime); !errors.Is(err, ErrRange) {
			t.Errorf("Format(%d, %d): err = %v, want %v", tt.sizeKiB, tt.inodes, err, ErrRange)
		}
	}
}

func TestFormatDeterministic(t *testing.T) {
	t.Parallel()

	a, err := Format(512, 256, testTime)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Format(512, 256, testTime)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("Format is not deterministic for a fixed time")
	}

	later, err := Format(512, 256, testTime.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, later) {
		t.Fatalf("timestamps not embedded in image")
	}
	imA, err := Parse(a)
	if err != nil {
		t.Fatal(err)
	}
	imLater, err := Parse(later)
	if err != nil {
		t.Fatal(err)
	}
	if imA.Digest() != imLater.Digest() {
		t.Errorf("digests differ for images differing only in timestamps")
	}
	if diff := cmp.Diff(imA.Layout(), imLater.Layout()); diff != "" {
		t.Errorf("layouts differ: diff (-want +got):\n%s", diff)
	}

	other, err := Format(516, 256, testTime)
	if err != nil {
		t.Fatal(err)
	}
	imOther, err := Parse(other)
	if err != nil {
		t.Fatal(err)
	}
	if imA.Digest() == imOther.Digest() {
		t.Errorf("digests equal for images of different sizes")
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fs.img")
	if err := Create(path, 180, 128); err != nil {
		t.Fatal(err)
	}
	im, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := im.Check(); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(t.TempDir(), "bad.img")
	if err := Create(bad, 100, 128); !errors.Is(err, ErrRange) {
		t.Fatalf("Create(100 KiB): err = %v, want %v", err, ErrRange)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Fatalf("Create(100 KiB) created %s (stat: %v)", bad, err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	valid, err := Format(1024, 128, testTime)
	if err != nil {
		t.Fatal(err)
	}
	clone := func() []byte { return append([]byte(nil), valid...) }

	for _, tt := range []struct {
		desc   string
		modify func() []byte
	}{
		{"empty", func() []byte { return nil }},
		{"truncated", func() []byte { return clone()[:len(valid)-1] }},
		{"not a multiple of the block size", func() []byte { return append(clone(), 0) }},
		{"bad magic", func() []byte {
			b := clone()
			b[0] ^= 0xff
			return b
		}},
		{"bad block size", func() []byte {
			b := clone()
			b[9] = 0x02 // 512 instead of 4096
			b[8] = 0x00
			return b
		}},
		{"checksum mismatch", func() []byte {
			b := clone()
			b[200] = 1
			return b
		}},
		{"length mismatch", func() []byte { return append(clone(), make([]byte, BlockSize)...) }},
		{"data region beyond the image", func() []byte {
			b := clone()
			im := &Image{buf: b}
			if err := get(b, &im.sb); err != nil {
				t.Fatal(err)
			}
			im.sb.DataRegionBlocks++
			im.putSuperblock()
			return b
		}},
		{"block count wrapping the image length", func() []byte {
			b := clone()
			im := &Image{buf: b}
			if err := get(b, &im.sb); err != nil {
				t.Fatal(err)
			}
			// TotalBlocks*BlockSize overflows to len(b).
			im.sb.TotalBlocks = 1<<52 + 256
			im.sb.InodeTableStart = 1 << 40
			im.sb.DataRegionStart = im.sb.TotalBlocks - 1
			im.sb.DataRegionBlocks = 1
			im.putSuperblock()
			return b
		}},
	} {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := Parse(tt.modify()); !errors.Is(err, ErrFormat) {
				t.Fatalf("Parse: err = %v, want %v", err, ErrFormat)
			}
		})
	}
}
