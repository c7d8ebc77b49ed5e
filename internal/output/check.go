package output

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	addedLinePrefix   = "+ "
	removedLinePrefix = "- "

	// errorReadExistingFormat is used when the previous document cannot be read.
	errorReadExistingFormat = "reading existing document %s: %w"
)

// ErrDocumentStale reports that the document on disk differs from a fresh generation.
var ErrDocumentStale = errors.New("document is out of date")

// CheckResult describes how the document on disk compares to a fresh generation.
type CheckResult struct {
	UpToDate bool
	Missing  bool
	// Diff lists removed lines prefixed with "- " and added lines prefixed with "+ ".
	Diff string
}

// CheckDocument compares the file at outputPath with markdown without writing.
// A missing file is reported as stale, not as an error.
//
// #nosec G304
func CheckDocument(outputPath string, markdown string) (CheckResult, error) {
	existingBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		if !errors.Is(readError, os.ErrNotExist) {
			return CheckResult{}, fmt.Errorf(errorReadExistingFormat, outputPath, readError)
		}
		return CheckResult{Missing: true, Diff: DiffLines("", markdown)}, nil
	}
	existing := string(existingBytes)
	if existing == markdown {
		return CheckResult{UpToDate: true}, nil
	}
	return CheckResult{Diff: DiffLines(existing, markdown)}, nil
}

// DiffLines returns a line-oriented diff between previous and current, listing
// only the changed lines in document order.
func DiffLines(previous string, current string) string {
	matcher := diffmatchpatch.New()
	previousChars, currentChars, lineArray := matcher.DiffLinesToChars(previous, current)
	diffs := matcher.DiffCharsToLines(matcher.DiffMain(previousChars, currentChars, false), lineArray)

	var builder strings.Builder
	for _, diff := range diffs {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = addedLinePrefix
		case diffmatchpatch.DiffDelete:
			prefix = removedLinePrefix
		default:
			continue
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			builder.WriteString(prefix)
			builder.WriteString(strings.TrimSuffix(line, "\n"))
			builder.WriteString("\n")
		}
	}
	return builder.String()
}
