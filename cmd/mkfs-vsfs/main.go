// mkfs-vsfs creates a vsfs file system image with an empty root directory.
//
// Usage:
//
//	mkfs-vsfs --image fs.img [--size-kib 1024] [--inodes 128] [--preset tiny]
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gokrazy/minifs/humanize"
	"github.com/gokrazy/minifs/imageflag"
	"github.com/gokrazy/minifs/vsfs"
	"github.com/spf13/pflag"
)

func mkfs(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := pflag.NewFlagSet("mkfs-vsfs", pflag.ContinueOnError)
	fs.SetOutput(logger.Writer())
	imagePath := fs.String("image", "", "path of the image to create")
	imageflag.RegisterPflags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *imagePath == "" || fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("--image is required, no positional arguments are accepted")
	}
	sizeKiB, inodes, err := imageflag.Parameters(fs)
	if err != nil {
		return err
	}
	l, err := vsfs.NewLayout(sizeKiB, inodes)
	if err != nil {
		return err
	}
	if err := vsfs.Create(*imagePath, sizeKiB, inodes); err != nil {
		return err
	}
	logger.Printf("%s: %d inodes, data region of %s starting at block %d",
		*imagePath,
		l.InodeCount,
		humanize.Blocks(l.DataRegionBlocks, vsfs.BlockSize),
		l.DataRegionStart)
	fmt.Fprintf(stdout, "File system image '%s' has been successfully created.\n", *imagePath)
	return nil
}

// run returns the process exit code: 0 on success, 2 on any error.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "mkfs-vsfs: ", 0)
	if err := mkfs(args, stdout, logger); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		logger.Print(err)
		return 2
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
