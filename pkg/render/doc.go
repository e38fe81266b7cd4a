// Package render draws node forests for people.
//
// # Text Trees
//
// [Tree] renders a forest as an indented terminal tree using lipgloss:
//
//	Main Building #1
//	├── East Wing #2
//	│   └── Pump 1 #4
//	└── West Wing #3
//
// Selection and expansion state from the session package can be passed in
// [Options] to mark selected nodes and fold collapsed subtrees, which is how
// the tree, browse and shell commands show the client view.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the same forest as a Graphviz diagram
// with parent-to-child edges, as DOT source, SVG or PNG.
//
// [nodelink]: github.com/matzehuels/nodeforest/pkg/render/nodelink
package render
