// Package io provides JSON and YAML import and export for node lists.
//
// # Formats
//
// The JSON document has a single top-level array, the same shape the file
// repository stores:
//
//	{
//	  "nodes": [
//	    {"id": 1, "name": "Main Building", "parent_id": null},
//	    {"id": 2, "name": "East Wing", "parent_id": 1}
//	  ]
//	}
//
// A bare array of nodes, as served by GET /nodes?flat=true, is accepted on
// import as well. The YAML document mirrors the JSON one:
//
//	nodes:
//	  - id: 1
//	    name: Main Building
//	    parent_id: null
//
// # Import
//
// Use [Import] to read a file whose format follows from its extension, or
// [ReadJSON] and [ReadYAML] to read from any io.Reader:
//
//	nodes, err := io.Import("facility.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every reader validates the list before returning it: names must be
// non-blank, ids unique and parent pointers acyclic. Dangling parents are
// allowed; they become roots once the forest is built.
//
// # Export
//
// Use [Export] to write a file, or [WriteJSON] and [WriteYAML] to write to
// any io.Writer. Nodes keep their stored order, so an export followed by an
// import reproduces the list exactly.
package io
