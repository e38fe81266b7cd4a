package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// ReadJSON decodes a node list from a {"nodes": [...]} document or a bare
// array and validates it.
func ReadJSON(r io.Reader) ([]forest.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var nodes []forest.Node
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &nodes)
	} else {
		var doc document
		err = json.Unmarshal(data, &doc)
		nodes = doc.Nodes
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return finish(nodes)
}

// ReadYAML decodes a node list from a YAML document and validates it.
// Like ReadJSON it accepts a top-level sequence as well as a nodes key.
func ReadYAML(r io.Reader) ([]forest.Node, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var nodes []forest.Node
	if len(root.Content) > 0 {
		var err error
		if root.Content[0].Kind == yaml.SequenceNode {
			err = root.Content[0].Decode(&nodes)
		} else {
			var doc document
			err = root.Content[0].Decode(&doc)
			nodes = doc.Nodes
		}
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	}
	return finish(nodes)
}

// Import reads a node list from path, choosing the format by extension.
func Import(path string) ([]forest.Node, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if format == FormatYAML {
		return ReadYAML(f)
	}
	return ReadJSON(f)
}

func finish(nodes []forest.Node) ([]forest.Node, error) {
	if nodes == nil {
		nodes = []forest.Node{}
	}
	if err := forest.ValidateList(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}
