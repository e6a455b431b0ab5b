package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	defer w.Close()
	for name, content := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create entry %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write entry %s: %v", name, err)
		}
	}
	return zipPath
}

func isHTML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func TestWalk(t *testing.T) {
	zipPath := createArchive(t, map[string]string{
		"page.html":      "<p>page</p>",
		"sub/frame.htm":  "<p>frame</p>",
		"notes.txt":      "not markup",
		"style/main.css": "p { color: red }",
	})

	t.Run("matching entries only", func(t *testing.T) {
		visited := map[string]bool{}
		err := Walk(zipPath, isHTML, func(arc string, f *zip.File) error {
			if arc != zipPath {
				t.Errorf("archive = %s, want %s", arc, zipPath)
			}
			visited[f.Name] = true
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if len(visited) != 2 || !visited["page.html"] || !visited["sub/frame.htm"] {
			t.Errorf("visited %v, want the two markup entries", visited)
		}
	})

	t.Run("nil match accepts everything", func(t *testing.T) {
		count := 0
		if err := Walk(zipPath, nil, func(string, *zip.File) error {
			count++
			return nil
		}); err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if count != 4 {
			t.Errorf("visited %d entries, want 4", count)
		}
	})

	t.Run("entry content is readable", func(t *testing.T) {
		err := Walk(zipPath, func(name string) bool { return name == "page.html" }, func(_ string, f *zip.File) error {
			rc, err := f.Open()
			if err != nil {
				return err
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return err
			}
			if string(data) != "<p>page</p>" {
				t.Errorf("content = %q", data)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
	})

	t.Run("callback error stops the walk", func(t *testing.T) {
		stop := errors.New("stop")
		count := 0
		err := Walk(zipPath, nil, func(string, *zip.File) error {
			count++
			return stop
		})
		if !errors.Is(err, stop) {
			t.Errorf("Walk() error = %v, want %v", err, stop)
		}
		if count != 1 {
			t.Errorf("visited %d entries after the error, want 1", count)
		}
	})
}

func TestWalkSkipsDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	dir := &zip.FileHeader{Name: "pages/"}
	dir.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dir); err != nil {
		t.Fatalf("Failed to create directory entry: %v", err)
	}
	fw, err := w.Create("pages/index.html")
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	fw.Write([]byte("<p>x</p>"))
	w.Close()
	zipFile.Close()

	var visited []string
	if err := Walk(zipPath, nil, func(_ string, f *zip.File) error {
		visited = append(visited, f.Name)
		return nil
	}); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(visited) != 1 || visited[0] != "pages/index.html" {
		t.Errorf("visited %v, want the file entry only", visited)
	}
}

func TestWalkRejectsUnsafePaths(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "evil.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	fw, err := w.Create("../escape.html")
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	fw.Write([]byte("<p>x</p>"))
	w.Close()
	zipFile.Close()

	err = Walk(zipPath, nil, func(string, *zip.File) error { return nil })
	if err == nil {
		t.Error("traversal entry must abort the walk")
	}
}

func TestWalkInvalidArchive(t *testing.T) {
	if err := Walk(filepath.Join(t.TempDir(), "missing.zip"), nil, nil); err == nil {
		t.Error("missing archive must error")
	}

	notZip := filepath.Join(t.TempDir(), "invalid.zip")
	if err := os.WriteFile(notZip, []byte("not a zip file"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Walk(notZip, nil, nil); err == nil {
		t.Error("invalid archive must error")
	}
}
