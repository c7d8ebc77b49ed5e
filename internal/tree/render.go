package tree

import (
	"path/filepath"
	"strings"
)

const (
	indentUnit   = "  "
	bulletPrefix = "- "
)

// Render returns the outline of the directory's entries as an indented bullet
// list, two spaces per depth level, lines joined by newlines.
func Render(directory *Node) string {
	var lines []string
	lines = appendOutlineLines(lines, directory, 0)
	return strings.Join(lines, "\n")
}

func appendOutlineLines(lines []string, directory *Node, depth int) []string {
	if directory == nil {
		return lines
	}
	indentation := strings.Repeat(indentUnit, depth)
	for _, child := range directory.Children {
		lines = append(lines, indentation+bulletPrefix+child.Name)
		if child.IsDirectory() {
			lines = appendOutlineLines(lines, child, depth+1)
		}
	}
	return lines
}

// CollectFiles returns the path of every file leaf relative to the directory,
// depth-first in stored order.
func CollectFiles(directory *Node) []string {
	return appendFilePaths(nil, directory, "")
}

func appendFilePaths(filePaths []string, directory *Node, currentPath string) []string {
	if directory == nil {
		return filePaths
	}
	for _, child := range directory.Children {
		childPath := filepath.Join(currentPath, child.Name)
		if child.IsDirectory() {
			filePaths = appendFilePaths(filePaths, child, childPath)
			continue
		}
		filePaths = append(filePaths, childPath)
	}
	return filePaths
}
