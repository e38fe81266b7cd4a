package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// WriteJSON writes nodes as an indented {"nodes": [...]} document.
func WriteJSON(nodes []forest.Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(nodes)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML writes nodes as a YAML document with a nodes key.
func WriteYAML(nodes []forest.Node, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(nodes)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes nodes to path, choosing the format by extension.
func Export(nodes []forest.Node, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if format == FormatYAML {
		return WriteYAML(nodes, f)
	}
	return WriteJSON(nodes, f)
}

func newDocument(nodes []forest.Node) document {
	if nodes == nil {
		nodes = []forest.Node{}
	}
	return document{Nodes: nodes}
}
