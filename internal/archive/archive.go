// SPDX-License-Identifier: MPL-2.0

// Package archive reads and writes .imscc package archives. Writing is
// atomic: the ZIP is staged to a temporary file next to the destination and
// renamed only on full success, so a mid-write failure never leaves a
// corrupt partial package behind.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"coursecart/pkg/cartridge"
)

// Write commits the staged package files to a ZIP archive at outputPath.
func Write(outputPath string, files []cartridge.File) error {
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(absPath), ".coursecart-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := writeZip(tmpFile, files); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize staging file: %w", err)
	}

	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to commit archive: %w", err)
	}
	return nil
}

func writeZip(w io.Writer, files []cartridge.File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		header := &zip.FileHeader{
			Name:   f.Path,
			Method: zip.Deflate,
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to create archive entry %s: %w", f.Path, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write archive entry %s: %w", f.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// Read loads every file of a package archive into memory, keyed by
// forward-slash package-relative path. Directory entries are skipped.
func Read(archivePath string) (map[string][]byte, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.TrimPrefix(filepath.ToSlash(f.Name), "./")
		// Reject entries that would escape the package root on extraction.
		if strings.HasPrefix(name, "../") || strings.Contains(name, "/../") {
			return nil, fmt.Errorf("invalid path in archive: %s", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
		}
		files[name] = data
	}
	return files, nil
}
