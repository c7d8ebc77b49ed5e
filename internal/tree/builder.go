package tree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/treedoc/internal/utils"
)

const (
	// warningReadDirectoryFormat is used when a directory cannot be listed.
	warningReadDirectoryFormat = "skipping contents of %s: %v"
	// warningSymlinkCycleFormat is used when a symlinked directory points back to an ancestor.
	warningSymlinkCycleFormat = "not descending into %s: symlink cycle"
)

// Builder builds directory trees while skipping entries named in IgnoreNames.
// Names are compared to entry basenames exactly, at every depth.
type Builder struct {
	IgnoreNames []string
	Warn        func(string)
}

// Build returns the directory node for directoryPath. A missing path or a path
// that is not a directory yields an empty directory node. Unreadable
// subdirectories are reported through Warn and recorded without children.
func (builder *Builder) Build(directoryPath string) *Node {
	rootNode := &Node{
		Name: filepath.Base(directoryPath),
		Type: NodeTypeDirectory,
	}
	directoryInfo, statError := os.Stat(directoryPath)
	if statError != nil || !directoryInfo.IsDir() {
		return rootNode
	}
	ancestors := map[string]struct{}{resolvePath(directoryPath): {}}
	rootNode.Children = builder.buildChildren(directoryPath, ancestors)
	return rootNode
}

// buildChildren lists currentDirectoryPath in name order and recurses into subdirectories.
func (builder *Builder) buildChildren(currentDirectoryPath string, ancestors map[string]struct{}) []*Node {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		builder.warn(fmt.Sprintf(warningReadDirectoryFormat, currentDirectoryPath, readDirectoryError))
		return nil
	}

	var nodes []*Node
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if utils.ContainsString(builder.IgnoreNames, entryName) {
			continue
		}

		childPath := filepath.Join(currentDirectoryPath, entryName)
		node := &Node{Name: entryName, Type: NodeTypeFile}
		if isDirectoryEntry(directoryEntry, childPath) {
			node.Type = NodeTypeDirectory
			resolvedChildPath := resolvePath(childPath)
			if _, visited := ancestors[resolvedChildPath]; visited {
				builder.warn(fmt.Sprintf(warningSymlinkCycleFormat, childPath))
			} else {
				ancestors[resolvedChildPath] = struct{}{}
				node.Children = builder.buildChildren(childPath, ancestors)
				delete(ancestors, resolvedChildPath)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (builder *Builder) warn(message string) {
	if builder.Warn != nil {
		builder.Warn(message)
	}
}

// isDirectoryEntry reports whether the entry is a directory, following symlinks.
func isDirectoryEntry(directoryEntry fs.DirEntry, entryPath string) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(entryPath)
	return statError == nil && targetInfo.IsDir()
}

// resolvePath returns the absolute, symlink-free form of path, falling back to
// the cleaned path when resolution fails.
func resolvePath(path string) string {
	resolvedPath, evalError := filepath.EvalSymlinks(path)
	if evalError != nil {
		return filepath.Clean(path)
	}
	absolutePath, absoluteError := filepath.Abs(resolvedPath)
	if absoluteError != nil {
		return resolvedPath
	}
	return absolutePath
}
