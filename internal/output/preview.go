package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const (
	defaultPreviewWidth = 100

	// errorPreviewRendererFormat is used when the terminal renderer cannot be built.
	errorPreviewRendererFormat = "creating preview renderer: %w"
	// errorPreviewRenderFormat is used when the document cannot be rendered.
	errorPreviewRenderFormat = "rendering preview: %w"
)

// IsTerminal reports whether file is attached to a terminal.
func IsTerminal(file *os.File) bool {
	return file != nil && term.IsTerminal(int(file.Fd()))
}

// TerminalWidth returns the column count of file, or a default when unknown.
func TerminalWidth(file *os.File) int {
	if file == nil {
		return defaultPreviewWidth
	}
	width, _, sizeError := term.GetSize(int(file.Fd()))
	if sizeError != nil || width <= 0 {
		return defaultPreviewWidth
	}
	return width
}

// RenderPreview writes markdown to writer styled for a terminal of the given width.
func RenderPreview(writer io.Writer, markdown string, width int) error {
	if width <= 0 {
		width = defaultPreviewWidth
	}
	renderer, rendererError := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if rendererError != nil {
		return fmt.Errorf(errorPreviewRendererFormat, rendererError)
	}
	rendered, renderError := renderer.Render(markdown)
	if renderError != nil {
		return fmt.Errorf(errorPreviewRenderFormat, renderError)
	}
	_, writeError := io.WriteString(writer, rendered)
	return writeError
}

// WritePlain writes markdown to writer unchanged.
func WritePlain(writer io.Writer, markdown string) error {
	_, writeError := io.WriteString(writer, markdown)
	return writeError
}
