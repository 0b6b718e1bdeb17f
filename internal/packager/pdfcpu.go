package packager

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/vartur/facturelibre/internal/facturx"
	"github.com/vartur/facturelibre/internal/render"
)

// PDFPackager builds the PDF/A-3 container with pdfcpu: the visible pages
// come from a declarative page description, the payload is attached under
// the name mandated by the Factur-X conventions.
type PDFPackager struct{}

// NewPDFPackager creates a pdfcpu-backed packager
func NewPDFPackager() *PDFPackager {
	return &PDFPackager{}
}

// Package writes the final container to outPath
func (p *PDFPackager) Package(ctx context.Context, doc *render.Document, payload []byte, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "facturelibre-"+uuid.NewString())
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	pageJSON, err := pageDescription(doc)
	if err != nil {
		return fmt.Errorf("page description: %w", err)
	}

	jsonPath := filepath.Join(workDir, "pages.json")
	if err := os.WriteFile(jsonPath, pageJSON, 0o644); err != nil {
		return fmt.Errorf("write page description: %w", err)
	}

	xmlPath := filepath.Join(workDir, facturx.AttachmentName)
	if err := os.WriteFile(xmlPath, payload, 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}

	pdfPath := filepath.Join(workDir, "invoice.pdf")
	if err := api.CreateFile("", jsonPath, pdfPath, nil); err != nil {
		return fmt.Errorf("render pages: %w", err)
	}

	if err := api.AddAttachmentsFile(pdfPath, outPath, []string{xmlPath}, false, nil); err != nil {
		return fmt.Errorf("attach payload: %w", err)
	}
	return nil
}

// pdfcpu declarative page model, kept to the subset the layout needs
type pageModel struct {
	Paper  string              `json:"paper"`
	Origin string              `json:"origin"`
	Pages  map[string]pageSpec `json:"pages"`
}

type pageSpec struct {
	Content contentSpec `json:"content"`
}

type contentSpec struct {
	Text []textSpec `json:"text"`
}

type textSpec struct {
	Value    string   `json:"value"`
	Position [2]int   `json:"position"`
	Font     fontSpec `json:"font"`
}

type fontSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// pageDescription lays the Document out as one A4 page of positioned
// text. Every value comes straight from the Document, which the
// assembler already synchronized with the XML payload.
func pageDescription(doc *render.Document) ([]byte, error) {
	const (
		left       = 40
		top        = 800
		lineHeight = 14
	)

	var texts []textSpec
	y := top

	add := func(value string, size int) {
		if value == "" {
			y -= lineHeight
			return
		}
		texts = append(texts, textSpec{
			Value:    value,
			Position: [2]int{left, y},
			Font:     fontSpec{Name: "Helvetica", Size: size},
		})
		y -= lineHeight + (size-10)*2
	}

	add(doc.Title, 16)
	add("Date d'émission : "+render.FormatDateFR(doc.IssueDate), 10)
	add("", 10)

	add(doc.Seller.Name, 12)
	for _, l := range doc.Seller.Lines {
		add(l, 10)
	}
	add("", 10)

	add("Facturé à : "+doc.Buyer.Name, 12)
	for _, l := range doc.Buyer.Lines {
		add(l, 10)
	}
	add("", 10)

	for _, line := range doc.Lines {
		add(fmt.Sprintf("%d. %s : %s x %s € = %s € (TVA %s %%)",
			line.Number, line.Description, line.Quantity,
			line.UnitPriceDisplay, line.NetDisplay, line.VATRateDisplay), 10)
	}
	add("", 10)

	add("Total HT : "+doc.SubtotalDisplay+" €", 11)
	add("TVA : "+doc.TaxTotalDisplay+" €", 11)
	add("Total TTC : "+doc.GrandTotalDisplay+" €", 12)
	add("", 10)

	for _, l := range doc.PaymentLines {
		add(l, 10)
	}
	add("", 10)

	for _, m := range doc.LegalMentions {
		add(m, 9)
	}

	page := pageModel{
		Paper:  "A4",
		Origin: "lowerLeft",
		Pages: map[string]pageSpec{
			"1": {Content: contentSpec{Text: texts}},
		},
	}
	return json.Marshal(page)
}
