// Package packager is the container boundary: it merges the rendered
// layout and the XML payload into a single PDF/A-3 file. The PDF
// mechanics are delegated to pdfcpu; only the input contract belongs to
// the core.
package packager

import (
	"context"

	"github.com/vartur/facturelibre/internal/render"
)

// Packager merges the two assembled views into the Factur-X container
type Packager interface {
	// Package writes the PDF/A-3 with the XML payload attached as
	// "factur-x.xml" to outPath.
	Package(ctx context.Context, doc *render.Document, payload []byte, outPath string) error
}
