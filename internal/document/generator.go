// Package document assembles the Markdown snapshot of a project directory.
package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/treedoc/internal/content"
	"github.com/temirov/treedoc/internal/language"
	"github.com/temirov/treedoc/internal/tree"
)

const (
	// DefaultOutlineHeading titles the directory outline section.
	DefaultOutlineHeading = "Project Structure"
	// DefaultContentsHeading titles the file contents section.
	DefaultContentsHeading = "File Contents"

	sectionHeadingPrefix = "## "
	fileHeadingPrefix    = "### "
	codeFence            = "```"

	// warningUndecodableFormat is used when a file is replaced by the placeholder.
	warningUndecodableFormat = "%s is not valid UTF-8 text; embedding placeholder"
	// errorReadContentFormat is used when a collected file cannot be read.
	errorReadContentFormat = "generating document for %s: %w"
)

// Headings holds the titles of the two document sections.
type Headings struct {
	Outline  string
	Contents string
}

// DefaultHeadings returns the standard section titles.
func DefaultHeadings() Headings {
	return Headings{Outline: DefaultOutlineHeading, Contents: DefaultContentsHeading}
}

// Generator produces Markdown documents for a directory.
type Generator struct {
	IgnoreNames []string
	Headings    Headings
	Warn        func(string)
}

// Result is the outcome of a generation run.
type Result struct {
	Markdown string
	// Files lists the embedded files relative to the base path, in document order.
	Files []string
	// UndecodableFiles lists the files that were replaced by the placeholder.
	UndecodableFiles []string
	Tree             *tree.Node
}

// Generate returns the snapshot document for basePath using the default headings.
func Generate(basePath string, ignoreNames []string) (string, error) {
	generator := Generator{IgnoreNames: ignoreNames, Headings: DefaultHeadings()}
	result, generateError := generator.Generate(basePath)
	if generateError != nil {
		return "", generateError
	}
	return result.Markdown, nil
}

// Generate builds the tree for basePath, renders its outline, and appends one
// fenced section per collected file. The first read error aborts the run.
func (generator *Generator) Generate(basePath string) (Result, error) {
	headings := generator.headings()
	treeBuilder := tree.Builder{IgnoreNames: generator.IgnoreNames, Warn: generator.Warn}
	rootNode := treeBuilder.Build(basePath)

	outlineSection := sectionHeadingPrefix + headings.Outline + "\n\n" + tree.Render(rootNode)

	relativePaths := tree.CollectFiles(rootNode)
	codeParts := []string{"\n\n" + sectionHeadingPrefix + headings.Contents + "\n"}
	var undecodableFiles []string
	for _, relativePath := range relativePaths {
		fullPath := filepath.Join(basePath, relativePath)
		languageTag := language.ForPath(fullPath)
		fileContent, readError := content.ReadFile(fullPath)
		if readError != nil {
			return Result{}, fmt.Errorf(errorReadContentFormat, basePath, readError)
		}
		if !fileContent.Decoded {
			undecodableFiles = append(undecodableFiles, relativePath)
			generator.warn(fmt.Sprintf(warningUndecodableFormat, fullPath))
		}
		codeParts = append(codeParts,
			fileHeadingPrefix+relativePath+"\n",
			codeFence+languageTag+"\n"+fileContent.Text+"\n"+codeFence+"\n",
		)
	}

	return Result{
		Markdown:         outlineSection + strings.Join(codeParts, "\n"),
		Files:            relativePaths,
		UndecodableFiles: undecodableFiles,
		Tree:             rootNode,
	}, nil
}

func (generator *Generator) headings() Headings {
	headings := generator.Headings
	if headings.Outline == "" {
		headings.Outline = DefaultOutlineHeading
	}
	if headings.Contents == "" {
		headings.Contents = DefaultContentsHeading
	}
	return headings
}

func (generator *Generator) warn(message string) {
	if generator.Warn != nil {
		generator.Warn(message)
	}
}
