// Package tree builds, renders, and flattens directory trees for the snapshot document.
package tree

// NodeType distinguishes file leaves from directories.
type NodeType string

const (
	// NodeTypeFile marks a leaf entry.
	NodeTypeFile NodeType = "file"
	// NodeTypeDirectory marks an entry holding child nodes.
	NodeTypeDirectory NodeType = "directory"
)

// Node is one entry of a directory tree. Directories keep their children in
// the order the builder recorded them; names are unique among siblings.
type Node struct {
	Name     string
	Type     NodeType
	Children []*Node
}

// IsDirectory reports whether the node is a directory.
func (node *Node) IsDirectory() bool {
	return node != nil && node.Type == NodeTypeDirectory
}

// Child returns the direct child with the provided name.
func (node *Node) Child(name string) (*Node, bool) {
	if node == nil {
		return nil, false
	}
	for _, child := range node.Children {
		if child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// CountFiles returns the number of file leaves below the node.
func CountFiles(node *Node) int {
	if node == nil {
		return 0
	}
	total := 0
	for _, child := range node.Children {
		if child.IsDirectory() {
			total += CountFiles(child)
			continue
		}
		total++
	}
	return total
}

// CountEntries returns the number of files and directories below the node.
func CountEntries(node *Node) int {
	if node == nil {
		return 0
	}
	total := 0
	for _, child := range node.Children {
		total++
		if child.IsDirectory() {
			total += CountEntries(child)
		}
	}
	return total
}
