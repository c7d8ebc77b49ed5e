// Package output writes, previews, and verifies generated snapshot documents.
package output

import (
	"fmt"
	"os"
)

const (
	documentFileMode = 0o644

	// errorWriteDocumentFormat is used when the document cannot be written.
	errorWriteDocumentFormat = "writing document to %s: %w"
)

// WriteDocument replaces the file at outputPath with markdown encoded as UTF-8.
// Existing content is truncated, never appended to.
func WriteDocument(outputPath string, markdown string) error {
	if writeError := os.WriteFile(outputPath, []byte(markdown), documentFileMode); writeError != nil {
		return fmt.Errorf(errorWriteDocumentFormat, outputPath, writeError)
	}
	return nil
}
