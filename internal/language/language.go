// Package language maps file extensions to the tags used on fenced code blocks.
package language

import (
	"path/filepath"
	"sort"
	"strings"
)

var extensionTags = map[string]string{
	".py":   "python",
	".java": "java",
	".js":   "javascript",
	".ts":   "typescript",
	".html": "html",
	".css":  "css",
	".c":    "c",
	".cpp":  "cpp",
	".h":    "c",
	".hpp":  "cpp",
	".json": "json",
	".md":   "markdown",
	".sh":   "bash",
}

// ForPath returns the language tag for the extension of filePath, or an empty
// string when the extension is unknown or missing. Matching is case-insensitive.
func ForPath(filePath string) string {
	extension := strings.ToLower(filepath.Ext(filepath.Base(filePath)))
	if extension == "" {
		return ""
	}
	return extensionTags[extension]
}

// Extensions returns every known extension in lexical order.
func Extensions() []string {
	extensions := make([]string, 0, len(extensionTags))
	for extension := range extensionTags {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}
