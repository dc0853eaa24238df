package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// Entry describes one file inside an archive.
type Entry struct {
	Path             string
	UncompressedSize uint64
}

// Index is an in-memory, random-access view over a ZIP blob.
type Index struct {
	reader  *zip.Reader
	byPath  map[string]*zip.File
	entries []Entry
}

// NewIndex builds an Index from a complete ZIP byte blob.
func NewIndex(data []byte) (*Index, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}

	idx := &Index{
		reader: r,
		byPath: make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		idx.byPath[f.Name] = f
		idx.entries = append(idx.entries, Entry{
			Path:             f.Name,
			UncompressedSize: f.UncompressedSize64,
		})
	}
	return idx, nil
}

// Entries returns the archive's file entries in archive order.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// FindEntry looks up an entry by its exact archive-internal path.
func (idx *Index) FindEntry(entryPath string) (Entry, bool) {
	f, ok := idx.byPath[entryPath]
	if !ok {
		return Entry{}, false
	}
	return Entry{Path: f.Name, UncompressedSize: f.UncompressedSize64}, true
}

// DecompressEntry reads and fully decompresses the named entry.
func (idx *Index) DecompressEntry(entryPath string) ([]byte, error) {
	f, ok := idx.byPath[entryPath]
	if !ok {
		return nil, fmt.Errorf("archive: entry %q not found", entryPath)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("archive: open entry %q: %w", entryPath, err)
	}
	defer rc.Close()

	buf := make([]byte, 0, f.UncompressedSize64)
	out := bytes.NewBuffer(buf)
	if _, err := io.Copy(out, rc); err != nil {
		return nil, fmt.Errorf("archive: decompress entry %q: %w", entryPath, err)
	}
	return out.Bytes(), nil
}

// BaseDocument returns the path of the archive's base scene document: the
// first entry, in archive order, whose extension is yaml or yml and whose
// path contains no "/" separator (i.e. it sits at the archive root).
func (idx *Index) BaseDocument() (string, bool) {
	for _, e := range idx.entries {
		if strings.Contains(e.Path, "/") {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(e.Path), "."))
		if ext == "yaml" || ext == "yml" {
			return e.Path, true
		}
	}
	return "", false
}
