// Package scanner enumerates image files under a source root, preserving
// the relative directory structure of each hit.
package scanner

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// validExtensions is the fixed allowlist of image file extensions.
var validExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".webp": true,
}

// ImageRecord identifies one scanned image file. RelativePath is the
// directory path relative to the scan root, empty for files directly in
// the root. Records are immutable once scanned.
type ImageRecord struct {
	Filename     string
	RelativePath string
	FullPath     string
}

// DisplayPath returns the record's path relative to the scan root, for
// status lines and logs.
func (r ImageRecord) DisplayPath() string {
	if r.RelativePath == "" {
		return r.Filename
	}
	return filepath.Join(r.RelativePath, r.Filename)
}

// ImageScanner defines the interface for enumerating image files.
type ImageScanner interface {
	Scan(root string, recursive bool) ([]ImageRecord, error)
}

// FileScanner implements ImageScanner over the local filesystem.
type FileScanner struct{}

// NewFileScanner creates a FileScanner.
func NewFileScanner() *FileScanner {
	return &FileScanner{}
}

// Scan enumerates image files under root. In flat mode only direct children
// are listed; in recursive mode the full subtree is walked, skipping
// symlinked directories and logging unreadable subdirectories without
// aborting. The result is sorted by FullPath so repeated scans of an
// unchanged tree are identical. An unreadable root is logged and returned
// as an error with an empty result.
func (s *FileScanner) Scan(root string, recursive bool) ([]ImageRecord, error) {
	info, err := os.Stat(root)
	if err != nil {
		log.Printf("Error scanning directory %q: %v", root, err)
		return nil, fmt.Errorf("failed to stat source directory %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %q is not a directory", root)
	}

	var records []ImageRecord
	if recursive {
		records = s.scanTree(root, root)
	} else {
		records = s.scanFlat(root)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].FullPath < records[j].FullPath
	})
	return records, nil
}

// scanFlat lists qualifying files directly under root.
func (s *FileScanner) scanFlat(root string) []ImageRecord {
	entries, err := os.ReadDir(root)
	if err != nil {
		log.Printf("Warning: failed to read directory %q: %v", root, err)
		return nil
	}

	var records []ImageRecord
	for _, entry := range entries {
		if entry.IsDir() || !isValidImage(entry.Name()) {
			continue
		}
		childPath := filepath.Join(root, entry.Name())
		if entry.Type()&os.ModeSymlink != 0 {
			// A symlink may point at a directory or at nothing.
			if target, err := os.Stat(childPath); err != nil || target.IsDir() {
				continue
			}
		}
		records = append(records, ImageRecord{
			Filename: entry.Name(),
			FullPath: childPath,
		})
	}
	return records
}

// scanTree recursively collects qualifying files under dir, recording each
// file's directory relative to root.
func (s *FileScanner) scanTree(root, dir string) []ImageRecord {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Skip this subtree, continue with siblings.
		log.Printf("Warning: failed to read directory %q: %v", dir, err)
		return nil
	}

	var records []ImageRecord
	for _, entry := range entries {
		childPath := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			records = append(records, s.scanTree(root, childPath)...)
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			// A symlink may point at a directory and create a cycle.
			if target, err := os.Stat(childPath); err != nil || target.IsDir() {
				continue
			}
		}
		if !isValidImage(entry.Name()) {
			continue
		}

		rel, err := filepath.Rel(root, dir)
		if err != nil {
			log.Printf("Warning: failed to relativize %q against %q: %v", dir, root, err)
			continue
		}
		if rel == "." {
			rel = ""
		}
		records = append(records, ImageRecord{
			Filename:     entry.Name(),
			RelativePath: rel,
			FullPath:     childPath,
		})
	}
	return records
}

// isValidImage checks the filename against the extension allowlist.
func isValidImage(name string) bool {
	return validExtensions[strings.ToLower(filepath.Ext(name))]
}
