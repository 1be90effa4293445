package dump

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// PackageDir packs a directory-tree artifact into a single .tar.gz next to
// it so it can be delivered as one chat document. The directory itself is
// left in place; callers own cleanup of both paths.
func PackageDir(dir string) (string, error) {
	out := dir + ".tar.gz"

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	root := filepath.Dir(dir)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		tw.Close()
		gw.Close()
		os.Remove(out)
		return "", fmt.Errorf("packing %s: %w", dir, err)
	}

	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive: %w", err)
	}
	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive: %w", err)
	}
	return out, nil
}
