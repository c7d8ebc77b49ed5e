// Package content reads file contents as UTF-8 text for the snapshot document.
package content

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// placeholderFormat names a file whose bytes are not valid UTF-8.
	placeholderFormat = "File %s could not be read: unknown encoding or not a text file."
	// errorReadFileFormat is used when a file cannot be opened or read.
	errorReadFileFormat = "reading file %s: %w"
)

// Result holds the text of one file.
type Result struct {
	Text string
	// Decoded is false when Text is the placeholder for undecodable content.
	Decoded bool
}

// ReadFile returns the content of filePath decoded as UTF-8 with line endings
// normalized to "\n". Content that is not valid UTF-8 yields the placeholder
// text and no error. Any other failure is returned.
//
// #nosec G304
func ReadFile(filePath string) (Result, error) {
	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		return Result{}, fmt.Errorf(errorReadFileFormat, filePath, readError)
	}
	if !utf8.Valid(fileBytes) {
		return Result{Text: Placeholder(filePath), Decoded: false}, nil
	}
	return Result{Text: normalizeLineEndings(string(fileBytes)), Decoded: true}, nil
}

// Placeholder returns the text substituted for a file that cannot be decoded.
func Placeholder(filePath string) string {
	return fmt.Sprintf(placeholderFormat, filePath)
}

func normalizeLineEndings(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
