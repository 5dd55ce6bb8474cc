package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Akaiko1/rapid-culler/internal/scanner"
)

// moveRecord moves a record's file under destRoot, mirroring its
// RelativePath as a subdirectory (created on demand) and renaming on
// collision so nothing is ever overwritten. Returns the final destination
// path.
func moveRecord(rec scanner.ImageRecord, destRoot string) (string, error) {
	destDir := destRoot
	if rec.RelativePath != "" {
		destDir = filepath.Join(destRoot, rec.RelativePath)
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create destination folder %q: %w", destDir, err)
		}
	}

	dst := collisionFreePath(destDir, rec.Filename)
	if err := movePath(rec.FullPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// collisionFreePath returns dir/filename, or the first dir/name_N.ext not
// already taken. Stat failures other than "not exist" are left for the
// rename to surface.
func collisionFreePath(dir, filename string) string {
	dst := filepath.Join(dir, filename)
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	for counter := 1; ; counter++ {
		if _, err := os.Lstat(dst); err != nil {
			return dst
		}
		dst = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
	}
}

// movePath renames src to dst, falling back to copy-and-remove when the
// destination is on another device.
func movePath(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to move %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to move %q to %q: %w", src, dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to finalize %q: %w", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove source %q after copy: %w", src, err)
	}
	return nil
}
