package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSchema is the on-disk catalog document.
type fileSchema struct {
	DefaultDatabase string  `yaml:"default_database"`
	DefaultSchema   string  `yaml:"default_schema"`
	Tables          []Table `yaml:"tables"`
	Functions       []Table `yaml:"functions"`
}

// LoadYAML reads a catalog document from r into a Memory resolver.
func LoadYAML(r io.Reader) (*Memory, error) {
	var doc fileSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	m := NewMemory()
	m.DefaultDatabase = doc.DefaultDatabase
	m.DefaultSchema = doc.DefaultSchema
	for i := range doc.Tables {
		m.AddTable(&doc.Tables[i])
	}
	for i := range doc.Functions {
		m.AddTVF(&doc.Functions[i])
	}
	return m, nil
}

// LoadYAMLFile reads a catalog document from path.
func LoadYAMLFile(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()
	m, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}
