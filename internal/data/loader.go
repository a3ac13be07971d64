package data

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed tables/*.yaml
var embedded embed.FS

// ErrNotFound is returned when no data directory holds the requested table.
var ErrNotFound = errors.New("loot table not found")

// Loader reads loot table files from a fallback hierarchy of directories,
// then from the tables bundled with the binary.
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a new Loader with the given data directory fallback hierarchy
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// extensions are tried in order when a table is referenced by name.
var extensions = []string{".yaml", ".yml", ".xml"}

// Load finds a table by name (with or without extension) or by path.
func (l *Loader) Load(ref string) (*Definition, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return l.LoadFile(ref)
	}

	name := strings.ReplaceAll(strings.ToLower(ref), " ", "-")
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range extensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, dir := range l.dataDirs {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			if _, err := os.Stat(path); err == nil {
				return l.LoadFile(path)
			}
		}
	}

	for _, c := range candidates {
		raw, err := fs.ReadFile(embedded, "tables/"+c)
		if err == nil {
			return parse(c, raw)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// LoadFile reads a single table file, choosing the format by extension.
func (l *Loader) LoadFile(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read loot table %s: %w", path, err)
	}
	return parse(path, raw)
}

func parse(path string, raw []byte) (*Definition, error) {
	var (
		def *Definition
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		def, err = ParseXML(raw)
	} else {
		def, err = ParseYAML(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}

// Bundled lists the names of the tables shipped with the binary.
func Bundled() []string {
	entries, _ := fs.ReadDir(embedded, "tables")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	return names
}

// BundledSource returns the raw file of a bundled table.
func BundledSource(name string) ([]byte, error) {
	raw, err := fs.ReadFile(embedded, "tables/"+name+".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return raw, nil
}
