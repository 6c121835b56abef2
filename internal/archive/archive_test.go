// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursecart/pkg/cartridge"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "course.imscc")

	files := []cartridge.File{
		{Path: "imsmanifest.xml", Data: []byte("<manifest/>")},
		{Path: "wiki_content/welcome.html", Data: []byte("<p>hi</p>")},
		{Path: "web_resources/img/logo.png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
	}
	if err := Write(out, files); err != nil {
		t.Fatal(err)
	}

	got, err := Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(files) {
		t.Fatalf("read %d files, want %d", len(got), len(files))
	}
	for _, f := range files {
		data, ok := got[f.Path]
		if !ok {
			t.Errorf("missing %s", f.Path)
			continue
		}
		if string(data) != string(f.Data) {
			t.Errorf("%s: content mismatch", f.Path)
		}
	}
}

func TestWriteCreatesParentDirs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "deeper", "course.imscc")
	if err := Write(out, []cartridge.File{{Path: "a.txt", Data: []byte("a")}}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestWriteLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "course.imscc")
	if err := Write(out, []cartridge.File{{Path: "a.txt", Data: []byte("a")}}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".coursecart-") {
			t.Errorf("staging file %s left behind", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the archive", len(entries))
	}
}

func TestWriteUsesZipPaths(t *testing.T) {
	out := filepath.Join(t.TempDir(), "course.imscc")
	if err := Write(out, []cartridge.File{
		{Path: "wiki_content/welcome.html", Data: []byte("x")},
	}); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	if len(zr.File) != 1 {
		t.Fatalf("archive has %d entries, want 1", len(zr.File))
	}
	if name := zr.File[0].Name; name != "wiki_content/welcome.html" {
		t.Errorf("entry name = %q, want forward-slash path", name)
	}
}

func TestReadRejectsTraversal(t *testing.T) {
	out := filepath.Join(t.TempDir(), "evil.imscc")
	f, err := os.Create(out)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("../outside.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("nope")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := Read(out); err == nil {
		t.Error("archive with ../ entry should be rejected")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.imscc")); err == nil {
		t.Error("reading a missing archive should fail")
	}
}
