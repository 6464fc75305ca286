//go:build windows

package report

// syncDir is a no-op on Windows, where renames via MoveFileEx are durable
// once they return.
func syncDir(dir string) error {
	return nil
}
