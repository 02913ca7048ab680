// vsfs-check verifies the consistency of a vsfs image.
//
// Usage:
//
//	vsfs-check [--list] [--digest] fs.img
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/gokrazy/minifs/humanize"
	"github.com/gokrazy/minifs/vsfs"
	"github.com/spf13/pflag"
)

var (
	list = pflag.BoolP("list",
		"l",
		false,
		"list the root directory")

	digest = pflag.Bool("digest",
		false,
		"print a digest of the image which ignores timestamps")
)

func check(path string, out io.Writer) error {
	im, err := vsfs.Open(path)
	if err != nil {
		return err
	}
	if err := im.Check(); err != nil {
		return err
	}
	sb := im.Superblock()
	inodes, blocks := im.Free()
	fmt.Fprintf(out, "%s: clean, %d/%d inodes free, %s of %s free\n",
		path,
		inodes,
		sb.InodeCount,
		humanize.Blocks(blocks, vsfs.BlockSize),
		humanize.Blocks(sb.DataRegionBlocks, vsfs.BlockSize))

	if *list {
		entries, err := im.ReadDir()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
		for _, e := range entries {
			kind := "-"
			if e.IsDir() {
				kind = "d"
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
				kind,
				e.Inode,
				e.Size,
				e.ModTime.UTC().Format("2006-01-02 15:04:05"),
				e.Name)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if *digest {
		fmt.Fprintf(out, "%x\n", im.Digest())
	}
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("vsfs-check: ")
	pflag.Parse()
	if pflag.NArg() != 1 {
		log.Print("usage: vsfs-check [--list] [--digest] <image>")
		os.Exit(2)
	}
	if err := check(pflag.Arg(0), os.Stdout); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
