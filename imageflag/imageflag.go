// Package imageflag provides the flags which select the parameters of a
// new vsfs image. Defaults are read from the config directory, falling
// back to preset.Default.
package imageflag

import (
	"fmt"

	"github.com/gokrazy/minifs/config"
	"github.com/gokrazy/minifs/preset"
	"github.com/spf13/pflag"
)

var (
	sizeKiB = config.Int("size-kib.txt", preset.Default.SizeKiB)

	inodes = config.Int("inodes.txt", preset.Default.Inodes)

	presetSlug string
)

func RegisterPflags(fs *pflag.FlagSet) {
	fs.IntVar(&sizeKiB,
		"size-kib",
		sizeKiB,
		`image size in KiB, a multiple of 4`)

	fs.IntVar(&inodes,
		"inodes",
		inodes,
		`number of inodes`)

	fs.StringVar(&presetSlug,
		"preset",
		"",
		`named parameter set (tiny, default, max); --size-kib and --inodes override it`)
}

// Parameters returns the image size and inode count selected by the
// flags registered on fs.
func Parameters(fs *pflag.FlagSet) (sizeKiB, inodes int, _ error) {
	sizeKiB, inodes = SizeKiB(), Inodes()
	if presetSlug == "" {
		return sizeKiB, inodes, nil
	}
	p, ok := preset.BySlug(presetSlug)
	if !ok {
		return 0, 0, fmt.Errorf("unknown preset %q", presetSlug)
	}
	if !fs.Changed("size-kib") {
		sizeKiB = p.SizeKiB
	}
	if !fs.Changed("inodes") {
		inodes = p.Inodes
	}
	return sizeKiB, inodes, nil
}

func SetSizeKiB(s int) { sizeKiB = s }

func SetInodes(i int) { inodes = i }

func SizeKiB() int { return sizeKiB }

func Inodes() int { return inodes }
