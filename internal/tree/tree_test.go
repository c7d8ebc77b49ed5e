package tree

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

// writeTestFile creates a file with the specified content, creating parent directories as needed.
func writeTestFile(t *testing.T, filePath string, content string) {
	t.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		t.Fatalf("failed to create directory for %s: %v", filePath, makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		t.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// describe converts a tree into a compact form where files map to nil.
func describe(node *Node) map[string]any {
	description := make(map[string]any)
	for _, child := range node.Children {
		if child.IsDirectory() {
			description[child.Name] = describe(child)
			continue
		}
		description[child.Name] = nil
	}
	return description
}

func TestBuildScenarioSkipsIgnoredNames(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "a.py"), "x=1")
	writeTestFile(t, filepath.Join(rootDirectory, "sub", "b.txt"), "hello")
	writeTestFile(t, filepath.Join(rootDirectory, "sub", "ignored.log"), "noise")

	builder := Builder{IgnoreNames: []string{"ignored.log"}}
	root := builder.Build(rootDirectory)

	expected := map[string]any{
		"a.py": nil,
		"sub":  map[string]any{"b.txt": nil},
	}
	if got := describe(root); !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected tree: got %v want %v", got, expected)
	}

	if outline := Render(root); outline != "- a.py\n- sub\n  - b.txt" {
		t.Fatalf("unexpected outline:\n%s", outline)
	}

	expectedFiles := []string{"a.py", filepath.Join("sub", "b.txt")}
	if files := CollectFiles(root); !reflect.DeepEqual(files, expectedFiles) {
		t.Fatalf("unexpected files: got %v want %v", files, expectedFiles)
	}
}

func TestBuildPrunesIgnoredDirectories(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "node_modules", "pkg", "index.js"), "module.exports = {}")
	writeTestFile(t, filepath.Join(rootDirectory, "src", "node_modules", "deep.js"), "nested")
	writeTestFile(t, filepath.Join(rootDirectory, "src", "app.js"), "app")

	var warnings []string
	builder := Builder{
		IgnoreNames: []string{"node_modules"},
		Warn:        func(message string) { warnings = append(warnings, message) },
	}
	root := builder.Build(rootDirectory)

	if _, found := root.Child("node_modules"); found {
		t.Fatalf("ignored directory present at root")
	}
	sourceDirectory, found := root.Child("src")
	if !found || !sourceDirectory.IsDirectory() {
		t.Fatalf("expected src directory")
	}
	if _, nestedFound := sourceDirectory.Child("node_modules"); nestedFound {
		t.Fatalf("ignored directory present below src")
	}
	if files := CollectFiles(root); !reflect.DeepEqual(files, []string{filepath.Join("src", "app.js")}) {
		t.Fatalf("unexpected files: %v", files)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestBuildMatchesExactNamesOnly(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "output.md"), "skip")
	writeTestFile(t, filepath.Join(rootDirectory, "output.md.bak"), "keep")
	writeTestFile(t, filepath.Join(rootDirectory, "my-output.md"), "keep")

	builder := Builder{IgnoreNames: []string{"output.md", "*.bak"}}
	root := builder.Build(rootDirectory)

	var names []string
	for _, child := range root.Children {
		names = append(names, child.Name)
	}
	if !reflect.DeepEqual(names, []string{"my-output.md", "output.md.bak"}) {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestBuildMissingOrFilePathYieldsEmptyTree(t *testing.T) {
	rootDirectory := t.TempDir()
	filePath := filepath.Join(rootDirectory, "plain.txt")
	writeTestFile(t, filePath, "text")

	builder := Builder{}
	for _, candidate := range []string{filepath.Join(rootDirectory, "missing"), filePath} {
		root := builder.Build(candidate)
		if !root.IsDirectory() || len(root.Children) != 0 {
			t.Fatalf("expected empty directory for %s, got %+v", candidate, root)
		}
		if Render(root) != "" {
			t.Fatalf("expected empty outline for %s", candidate)
		}
		if len(CollectFiles(root)) != 0 {
			t.Fatalf("expected no files for %s", candidate)
		}
	}
}

func TestBuildSortsEntriesWithoutGroupingDirectories(t *testing.T) {
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "b", "inner.txt"), "inner")
	writeTestFile(t, filepath.Join(rootDirectory, "a.txt"), "a")
	writeTestFile(t, filepath.Join(rootDirectory, "c.txt"), "c")

	builder := Builder{}
	root := builder.Build(rootDirectory)

	expectedOutline := strings.Join([]string{"- a.txt", "- b", "  - inner.txt", "- c.txt"}, "\n")
	if outline := Render(root); outline != expectedOutline {
		t.Fatalf("unexpected outline:\n%s", outline)
	}
	expectedFiles := []string{"a.txt", filepath.Join("b", "inner.txt"), "c.txt"}
	if files := CollectFiles(root); !reflect.DeepEqual(files, expectedFiles) {
		t.Fatalf("unexpected files: got %v want %v", files, expectedFiles)
	}
}

func TestRenderEmptyDirectoryAddsNoBlankLine(t *testing.T) {
	root := &Node{Type: NodeTypeDirectory, Children: []*Node{
		{Name: "empty", Type: NodeTypeDirectory},
		{Name: "z.txt", Type: NodeTypeFile},
	}}
	if outline := Render(root); outline != "- empty\n- z.txt" {
		t.Fatalf("unexpected outline: %q", outline)
	}
}

func TestRenderAndCollectInvariants(t *testing.T) {
	root := &Node{Type: NodeTypeDirectory, Children: []*Node{
		{Name: "docs", Type: NodeTypeDirectory, Children: []*Node{
			{Name: "guide", Type: NodeTypeDirectory, Children: []*Node{
				{Name: "intro.md", Type: NodeTypeFile},
			}},
			{Name: "index.md", Type: NodeTypeFile},
		}},
		{Name: "empty", Type: NodeTypeDirectory},
		{Name: "main.py", Type: NodeTypeFile},
	}}

	outline := Render(root)
	lines := strings.Split(outline, "\n")
	if len(lines) != CountEntries(root) {
		t.Fatalf("expected %d lines, got %d", CountEntries(root), len(lines))
	}
	expectedDepths := []int{0, 1, 2, 1, 0, 0}
	for lineIndex, line := range lines {
		leadingSpaces := len(line) - len(strings.TrimLeft(line, " "))
		if leadingSpaces != 2*expectedDepths[lineIndex] {
			t.Fatalf("line %d %q has %d leading spaces", lineIndex, line, leadingSpaces)
		}
	}

	files := CollectFiles(root)
	if len(files) != CountFiles(root) || len(files) != 3 {
		t.Fatalf("unexpected files: %v", files)
	}
	seen := make(map[string]struct{})
	for _, filePath := range files {
		if _, duplicate := seen[filePath]; duplicate {
			t.Fatalf("duplicate path %s", filePath)
		}
		seen[filePath] = struct{}{}
	}
}

func TestBuildFollowsSymlinkedDirectoriesAndStopsOnCycles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}
	rootDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(rootDirectory, "real", "file.txt"), "content")
	if linkError := os.Symlink(filepath.Join(rootDirectory, "real"), filepath.Join(rootDirectory, "linked")); linkError != nil {
		t.Fatalf("symlink: %v", linkError)
	}
	if linkError := os.Symlink(rootDirectory, filepath.Join(rootDirectory, "real", "loop")); linkError != nil {
		t.Fatalf("symlink: %v", linkError)
	}

	var warnings []string
	builder := Builder{Warn: func(message string) { warnings = append(warnings, message) }}
	root := builder.Build(rootDirectory)

	linkedDirectory, found := root.Child("linked")
	if !found || !linkedDirectory.IsDirectory() {
		t.Fatalf("expected symlinked directory to be descended")
	}
	if _, fileFound := linkedDirectory.Child("file.txt"); !fileFound {
		t.Fatalf("expected file below symlinked directory")
	}
	loopDirectory, loopFound := linkedDirectory.Child("loop")
	if !loopFound || !loopDirectory.IsDirectory() || len(loopDirectory.Children) != 0 {
		t.Fatalf("expected cyclic link recorded as empty directory, got %+v", loopDirectory)
	}
	if len(warnings) == 0 {
		t.Fatalf("expected a cycle warning")
	}
}
