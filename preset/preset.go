// Package preset contains named image parameter sets for mkfs-vsfs.
package preset

// Preset describes the parameters an image is formatted with.
type Preset struct {
	// Slug is a unique, short string used on the command line (--preset) to
	// refer to this preset.
	Slug string
	// SizeKiB is the image size in kibibytes. It must be a multiple of 4.
	SizeKiB int
	// Inodes is the number of inode table slots, i.e. the maximum number of
	// files plus the root directory.
	Inodes int
}

var (
	// Presets contains a mapping from slug to preset.
	Presets = map[string]Preset{
		// Smallest image mkfs-vsfs accepts.
		"tiny": {
			Slug:    "tiny",
			SizeKiB: 180,
			Inodes:  128,
		},
		"default": Default,
		// Largest image, with room for the most inodes; the root directory
		// still only holds 62 files.
		"max": {
			Slug:    "max",
			SizeKiB: 4096,
			Inodes:  512,
		},
	}

	Default = Preset{
		Slug:    "default",
		SizeKiB: 1024,
		Inodes:  128,
	}
)

func BySlug(slug string) (Preset, bool) {
	p, ok := Presets[slug]
	return p, ok
}
