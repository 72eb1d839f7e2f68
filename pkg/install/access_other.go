//go:build !unix

package install

// checkWritable is a no-op where access(2) is unavailable; the first
// write reports the failure instead.
func checkWritable(dir string) error {
	return nil
}
