package dump

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestPackageDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "mongo_backup_20250101-120000")
	if err := os.MkdirAll(filepath.Join(dir, "mydb"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mydb", "users.bson"), []byte("bson-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := PackageDir(dir)
	if err != nil {
		t.Fatalf("PackageDir: %v", err)
	}
	if out != dir+".tar.gz" {
		t.Errorf("archive path = %q, want %q", out, dir+".tar.gz")
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("archive is not gzipped: %v", err)
	}
	tr := tar.NewReader(gr)

	entries := make(map[string]string)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading tar: %v", err)
		}
		var body []byte
		if hdr.Typeflag == tar.TypeReg {
			body, err = io.ReadAll(tr)
			if err != nil {
				t.Fatal(err)
			}
		}
		entries[hdr.Name] = string(body)
	}

	if got := entries["mongo_backup_20250101-120000/mydb/users.bson"]; got != "bson-bytes" {
		t.Errorf("users.bson content = %q, want bson-bytes (entries: %v)", got, entries)
	}
}

func TestPackageDirMissing(t *testing.T) {
	if _, err := PackageDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("PackageDir on missing directory succeeded")
	}
}
