// Package archive packs a mod working directory into a distributable zip.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrExists is returned when the target archive is already present.
var ErrExists = errors.New("archive already exists")

// ZipDir writes every regular file under srcDir into a new zip at zipPath,
// named by its slash-separated path relative to srcDir, using Deflate. The
// target must not exist. On failure the partially written archive is removed.
// It returns the number of entries written.
func ZipDir(srcDir, zipPath string) (n int, err error) {
	f, err := os.OpenFile(zipPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return 0, fmt.Errorf("%s: %w", filepath.Base(zipPath), ErrExists)
		}
		return 0, fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(zipPath)
		}
	}()

	zw := zip.NewWriter(f)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		if _, err := io.Copy(w, src); err != nil {
			return fmt.Errorf("adding %s: %w", header.Name, err)
		}
		n++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("writing archive: %w", err)
	}
	if err = zw.Close(); err != nil {
		return 0, fmt.Errorf("finalizing archive: %w", err)
	}
	if err = f.Close(); err != nil {
		return 0, fmt.Errorf("closing archive: %w", err)
	}
	return n, nil
}

// Entries lists the entry names of a zip archive in stored order.
func Entries(zipPath string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}
