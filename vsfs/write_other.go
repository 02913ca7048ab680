//go:build !unix

package vsfs

// isNoSpace is not implemented on this platform; a full host file system
// is reported with the underlying error.
func isNoSpace(err error) bool { return false }
