package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/repository"
)

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []forest.Node
	}{
		{
			name: "document",
			data: `{"nodes":[{"id":1,"name":"A","parent_id":null},{"id":2,"name":"B","parent_id":1}]}`,
			want: []forest.Node{{ID: 1, Name: "A"}, {ID: 2, Name: "B", ParentID: forest.Ref(1)}},
		},
		{
			name: "bare array",
			data: ` [{"id":5,"name":"E"}]`,
			want: []forest.Node{{ID: 5, Name: "E"}},
		},
		{
			name: "empty document",
			data: `{"nodes":[]}`,
			want: []forest.Node{},
		},
		{
			name: "missing nodes key",
			data: `{}`,
			want: []forest.Node{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadJSON(strings.NewReader(tt.data))
			if err != nil {
				t.Fatalf("ReadJSON: %v", err)
			}
			if got == nil || !repository.Equal(got, tt.want) {
				t.Errorf("ReadJSON() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code nferrors.Code
	}{
		{"syntax", `{"nodes":`, ""},
		{"wrong type", `{"nodes":[{"id":"x"}]}`, ""},
		{"duplicate", `[{"id":1,"name":"a"},{"id":1,"name":"b"}]`, nferrors.ErrCodeInvalidInput},
		{"cycle", `[{"id":1,"name":"a","parent_id":2},{"id":2,"name":"b","parent_id":1}]`, nferrors.ErrCodeInvalidInput},
		{"blank name", `[{"id":1,"name":""}]`, nferrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("ReadJSON() succeeded, want error")
			}
			if tt.code != "" && !nferrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadYAML(t *testing.T) {
	data := `
nodes:
  - id: 1
    name: Main Building
    parent_id: null
  - id: 2
    name: East Wing
    parent_id: 1
`
	got, err := ReadYAML(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	want := []forest.Node{{ID: 1, Name: "Main Building"}, {ID: 2, Name: "East Wing", ParentID: forest.Ref(1)}}
	if !repository.Equal(got, want) {
		t.Errorf("ReadYAML() = %+v, want %+v", got, want)
	}

	seq, err := ReadYAML(strings.NewReader("- id: 3\n  name: C\n"))
	if err != nil {
		t.Fatalf("ReadYAML(sequence): %v", err)
	}
	if len(seq) != 1 || seq[0].ID != 3 || seq[0].ParentID != nil {
		t.Errorf("ReadYAML(sequence) = %+v", seq)
	}

	empty, err := ReadYAML(strings.NewReader(""))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ReadYAML(empty) = %+v, %v; want empty list", empty, err)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	nodes := []forest.Node{{ID: 1, Name: "A"}, {ID: 2, Name: "B", ParentID: forest.Ref(1)}}
	if err := WriteJSON(nodes, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	want := `{
  "nodes": [
    {
      "id": 1,
      "name": "A",
      "parent_id": null
    },
    {
      "id": 2,
      "name": "B",
      "parent_id": 1
    }
  ]
}
`
	if buf.String() != want {
		t.Errorf("WriteJSON() =\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := WriteJSON(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"nodes": []`) {
		t.Errorf("nil list should export as an empty array, got %s", buf.String())
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	seed := repository.Seed()

	for _, name := range []string{"nodes.json", "nodes.yaml", "nodes.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Export(seed, path); err != nil {
				t.Fatalf("Export: %v", err)
			}
			got, err := Import(path)
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if !repository.Equal(got, seed) {
				t.Errorf("round trip changed the list:\n got %+v\nwant %+v", got, seed)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.json", FormatJSON, false},
		{"dir/A.JSON", FormatJSON, false},
		{"a.yaml", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.toml", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = (%q, %v), want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestImport_MissingFile(t *testing.T) {
	if _, err := Import(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Import of a missing file should fail")
	}
}
