// vsfs-add adds a file to the root directory of a vsfs image, writing
// the result to a new image. The input image is not modified.
//
// Usage:
//
//	vsfs-add --input fs.img --output out.img --file resolv.conf
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gokrazy/minifs/vsfs"
	"github.com/spf13/pflag"
)

func add(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := pflag.NewFlagSet("vsfs-add", pflag.ContinueOnError)
	fs.SetOutput(logger.Writer())
	var (
		input = fs.String("input",
			"",
			"existing vsfs image")

		output = fs.String("output",
			"",
			"path to write the resulting image to")

		file = fs.String("file",
			"",
			"file to add to the root directory, under its base name")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" || *file == "" || fs.NArg() > 0 {
		fs.Usage()
		return fmt.Errorf("--input, --output and --file are required")
	}
	if err := vsfs.AddFile(*input, *file, *output); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "File '%s' has been successfully added to the file system image '%s'.\n", *file, *output)
	fmt.Fprintf(stdout, "Updated file system image '%s' has been written successfully.\n", *output)
	return nil
}

// run returns the process exit code: 0 on success, 2 on any error.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "vsfs-add: ", 0)
	if err := add(args, stdout, logger); err != nil {
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
