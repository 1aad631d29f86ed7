// Package document reads and writes scene documents. Files ending in .sz
// hold snappy-compressed JSON, anything else plain JSON.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"nodegraph/graph"
	"nodegraph/validation"
)

const (
	Extension           = ".json"
	CompressedExtension = ".sz"

	filePermissions = 0o644
)

// IsCompressed reports whether path is stored snappy-compressed.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExtension)
}

// Read decodes a JSON document. Missing maps come back empty.
func Read(r io.Reader) (graph.Document, error) {
	var doc graph.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return graph.Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	normalize(&doc)
	return doc, nil
}

func normalize(doc *graph.Document) {
	if doc.Nodes == nil {
		doc.Nodes = map[string]graph.NodeRecord{}
	}
	if doc.Connections == nil {
		doc.Connections = []graph.ConnectionRecord{}
	}
	for id, rec := range doc.Nodes {
		if rec.Scene != nil {
			normalize(rec.Scene)
			doc.Nodes[id] = rec
		}
	}
}

// Write encodes doc as JSON.
func Write(w io.Writer, doc graph.Document, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// Marshal returns the bytes Save would write to path.
func Marshal(path string, doc graph.Document, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, indent); err != nil {
		return nil, err
	}
	if IsCompressed(path) {
		return snappy.Encode(nil, buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data read from path.
func Unmarshal(path string, data []byte) (graph.Document, error) {
	if IsCompressed(path) {
		raw, err := snappy.Decode(nil, data)
		if err != nil {
			return graph.Document{}, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		data = raw
	}
	return Read(bytes.NewReader(data))
}

// Load reads and validates the document at path. Unknown node types are
// left for the scene to load as generic nodes.
func Load(path string) (graph.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.Document{}, err
	}
	doc, err := Unmarshal(path, data)
	if err != nil {
		return graph.Document{}, err
	}
	if err := validation.Document(doc); err != nil {
		return graph.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes doc to path through a temporary file so a failed write never
// leaves a truncated document behind.
func Save(path string, doc graph.Document, indent bool) error {
	data, err := Marshal(path, doc, indent)
	if err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename document: %w", err)
	}
	return nil
}
