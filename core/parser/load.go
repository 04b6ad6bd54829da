package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/railplan/core/network"
)

// Decode reads a Document in the given format: yaml, json or text.
func Decode(r io.Reader, format string) (Document, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return doc, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return doc, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
	case "text", "txt", "":
		return ParseText(r)
	default:
		return doc, fmt.Errorf("unsupported format: %s", format)
	}
	return doc, nil
}

// FormatOf maps a file name to a format by extension. Anything that is not
// YAML or JSON is read as text.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "text"
	}
}

// Read decodes r and builds the network.
func Read(r io.Reader, format string, opts network.Options) (*network.Network, error) {
	doc, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	def, err := doc.Definition()
	if err != nil {
		return nil, err
	}
	return network.New(def, opts)
}

// LoadFile reads the network stored at path, choosing the decoder by
// extension.
func LoadFile(path string, opts network.Options) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := Read(f, FormatOf(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
