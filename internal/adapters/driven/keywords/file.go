// Package keywords loads the classifier's keyword dictionary from a YAML file.
//
// File format:
//
//	# Add to the built-in list instead of replacing it.
//	extend: true
//	keywords:
//	  - pondok
//	  - yayasan pendidikan
package keywords

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driven"
)

// Ensure File implements the interface.
var _ driven.KeywordSource = (*File)(nil)

// document is the YAML layout of a keyword file.
type document struct {
	Extend   bool     `yaml:"extend"`
	Keywords []string `yaml:"keywords"`
}

// File is a KeywordSource backed by a YAML file. The file is read on every
// call so edits apply on the next classifier rebuild.
type File struct {
	path string
	base []string
}

// NewFile creates a keyword source. base is the dictionary an "extend: true"
// file adds to.
func NewFile(path string, base []string) *File {
	return &File{path: path, base: base}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Keywords reads the file. Blank entries are dropped; an empty list is an
// error because it would make every name a non-school.
func (f *File) Keywords() ([]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read keywords %s: %w", f.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse keywords %s: %w: %w", f.path, domain.ErrInvalidInput, err)
	}

	var out []string
	if doc.Extend {
		out = append(out, f.base...)
	}
	for _, kw := range doc.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("keywords %s: no keywords: %w", f.path, domain.ErrInvalidInput)
	}
	return out, nil
}
