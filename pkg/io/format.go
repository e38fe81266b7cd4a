package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/nodeforest/pkg/forest"
)

// Format names a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported file extension %q: want .json, .yaml or .yml", filepath.Ext(path))
}

type document struct {
	Nodes []forest.Node `json:"nodes" yaml:"nodes"`
}
