package humanize

import "fmt"

func Bytes(bytes uint64) string {
	switch {
	case bytes >= (1024 * 1024):
		return fmt.Sprintf("%.f MiB", float64(bytes)/1024/1024)
	case bytes >= 1024:
		return fmt.Sprintf("%.f KiB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// Blocks formats a block count together with the space it covers,
// e.g. “248 blocks (992 KiB)”.
func Blocks(blocks, blockSize uint64) string {
	unit := "blocks"
	if blocks == 1 {
		unit = "block"
	}
	return fmt.Sprintf("%d %s (%s)", blocks, unit, Bytes(blocks*blockSize))
}
