package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/billfold/estimate-api/internal/domain"
)

// Renderer turns an estimate record plus design settings into a single
// A4 PDF page. Every figure it prints comes from the totals functions in
// the domain package; nothing is recomputed here with different rounding.
type Renderer struct {
	publicBaseURL string
	logger        *zap.Logger
}

// NewRenderer creates a Renderer. publicBaseURL, when set, is used to
// embed a QR code linking back to the estimate's download endpoint.
func NewRenderer(publicBaseURL string, logger *zap.Logger) *Renderer {
	return &Renderer{
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Filename derives the deterministic download filename for an estimate
func Filename(number string) string {
	return fmt.Sprintf("estimate-%s.pdf", number)
}

// fontName maps a configured font family onto a gofpdf core font
func fontName(f domain.FontFamily) string {
	switch f {
	case domain.FontCourier:
		return "Courier"
	case domain.FontTimes:
		return "Times"
	default:
		return "Helvetica"
	}
}

// hexToRGB parses "#RRGGBB" (or "#RGB"); unparseable input yields black
func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}

// decodeDataURI splits a base64 data URI into an image type gofpdf
// understands and the raw bytes.
func decodeDataURI(uri string) (string, []byte, error) {
	const marker = ";base64,"
	idx := strings.Index(uri, marker)
	if !strings.HasPrefix(uri, "data:image/") || idx < 0 {
		return "", nil, fmt.Errorf("unsupported image data")
	}

	mime := uri[len("data:image/"):idx]
	var imageType string
	switch strings.ToLower(mime) {
	case "png":
		imageType = "PNG"
	case "jpeg", "jpg":
		imageType = "JPG"
	case "gif":
		imageType = "GIF"
	default:
		return "", nil, fmt.Errorf("unsupported image type: %s", mime)
	}

	raw, err := base64.StdEncoding.DecodeString(uri[idx+len(marker):])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return imageType, raw, nil
}

// Render produces the PDF bytes for an estimate. estimateID is the
// history entry id the QR code should point back to.
func (r *Renderer) Render(record domain.EstimateRecord, settings domain.DesignSettings, estimateID uuid.UUID) ([]byte, error) {
	font := fontName(settings.FontFamily)
	pr, pg, pb := hexToRGB(settings.PrimaryColor)
	sr, sg, sb := hexToRGB(settings.SecondaryColor)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()
	pdf.SetFont(font, "", 10)

	// --- Header ---
	pdf.SetFont(font, "B", 24)
	pdf.SetTextColor(pr, pg, pb)
	pdf.Cell(130, 12, record.Title)
	pdf.Ln(12)
	pdf.SetFont(font, "", 12)
	pdf.SetTextColor(sr, sg, sb)
	pdf.Cell(130, 6, fmt.Sprintf("Estimate #%s", record.Number))
	pdf.Ln(12)

	if settings.Logo != "" {
		if err := r.placeLogo(pdf, settings.Logo); err != nil {
			// A broken logo must not block generation
			r.logger.Warn("skipping logo", zap.Error(err))
		}
	}

	// --- Party columns ---
	topY := pdf.GetY()
	r.partyColumn(pdf, 14, topY, "Business", [][2]string{
		{"Company", record.Business.Name},
		{"Phone", record.Business.Phone},
		{"Email", record.Business.Email},
		{"Website", record.Business.Website},
	}, record.Business.CustomFields, font, pr, pg, pb, sr, sg, sb)
	leftBottom := pdf.GetY()

	r.partyColumn(pdf, 110, topY, "Client", [][2]string{
		{"Name", record.Client.Name},
		{"Address", record.Client.Address},
		{"Phone", record.Client.Phone},
		{"Email", record.Client.Email},
	}, record.Client.CustomFields, font, pr, pg, pb, sr, sg, sb)

	if leftBottom > pdf.GetY() {
		pdf.SetY(leftBottom)
	}
	pdf.Ln(6)

	// --- Dates ---
	r.sectionTitle(pdf, "Estimate Details", font, pr, pg, pb, sr, sg, sb)
	pdf.SetFont(font, "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.Cell(96, 6, fmt.Sprintf("Date: %s", record.IssueDate))
	pdf.Cell(86, 6, fmt.Sprintf("Expiration: %s", record.ExpirationDate))
	pdf.Ln(12)

	// --- Item table ---
	r.sectionTitle(pdf, "Items", font, pr, pg, pb, sr, sg, sb)
	r.itemTable(pdf, record.Items, font, pr, pg, pb)
	pdf.Ln(6)

	// --- Totals ---
	r.totalsBlock(pdf, record, font, pr, pg, pb, sr, sg, sb)

	// --- Notes / terms, omitted entirely when both are empty ---
	if record.Notes != "" || record.Terms != "" {
		pdf.Ln(6)
		if record.Notes != "" {
			r.sectionTitle(pdf, "Notes", font, pr, pg, pb, sr, sg, sb)
			pdf.SetFont(font, "", 10)
			pdf.SetTextColor(51, 51, 51)
			pdf.MultiCell(182, 5, record.Notes, "", "L", false)
			pdf.Ln(4)
		}
		if record.Terms != "" {
			r.sectionTitle(pdf, "Terms and Conditions", font, pr, pg, pb, sr, sg, sb)
			pdf.SetFont(font, "", 10)
			pdf.SetTextColor(51, 51, 51)
			pdf.MultiCell(182, 5, record.Terms, "", "L", false)
		}
	}

	if r.publicBaseURL != "" {
		if err := r.placeQRCode(pdf, estimateID); err != nil {
			r.logger.Warn("skipping QR code", zap.Error(err))
		}
	}

	// --- Footer ---
	pdf.SetY(-24)
	pdf.SetFont(font, "I", 9)
	pdf.SetTextColor(sr, sg, sb)
	pdf.MultiCell(182, 5, fmt.Sprintf(
		"Thank you for your business. For any inquiries, please contact us at %s or %s.",
		record.Business.Email, record.Business.Phone,
	), "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) sectionTitle(pdf *gofpdf.Fpdf, title, font string, pr, pg, pb, sr, sg, sb int) {
	pdf.SetFont(font, "B", 14)
	pdf.SetTextColor(pr, pg, pb)
	pdf.Cell(182, 8, title)
	pdf.Ln(8)
	pdf.SetDrawColor(sr, sg, sb)
	pdf.Line(14, pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(3)
}

// partyColumn prints one party block at a fixed x position: the fixed
// fields first, then the custom fields in insertion order.
func (r *Renderer) partyColumn(pdf *gofpdf.Fpdf, x, y float64, title string, fields [][2]string, custom []domain.CustomField, font string, pr, pg, pb, sr, sg, sb int) {
	pdf.SetXY(x, y)
	pdf.SetFont(font, "B", 14)
	pdf.SetTextColor(pr, pg, pb)
	pdf.Cell(86, 8, title)
	pdf.Ln(8)
	pdf.SetX(x)
	pdf.SetDrawColor(sr, sg, sb)
	pdf.Line(x, pdf.GetY(), x+86, pdf.GetY())
	pdf.SetY(pdf.GetY() + 2)

	row := func(label, value string) {
		pdf.SetX(x)
		pdf.SetFont(font, "", 9)
		pdf.SetTextColor(sr, sg, sb)
		pdf.Cell(30, 5, label+":")
		pdf.SetTextColor(51, 51, 51)
		pdf.Cell(56, 5, value)
		pdf.Ln(5)
	}

	for _, f := range fields {
		row(f[0], f[1])
	}
	for _, cf := range custom {
		row(cf.Key, cf.Value)
	}
}

// itemTable prints one row per line item in record order, striping rows
// by index parity.
func (r *Renderer) itemTable(pdf *gofpdf.Fpdf, items []domain.LineItem, font string, pr, pg, pb int) {
	widths := []float64{64, 20, 28, 36, 34}
	headers := []string{"Description", "Qty", "Rate", "Amount", "Details"}

	pdf.SetFont(font, "B", 10)
	pdf.SetFillColor(pr, pg, pb)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(224, 224, 224)
	for i, h := range headers {
		last := i == len(headers)-1
		ln := 0
		if last {
			ln = 1
		}
		pdf.CellFormat(widths[i], 8, h, "1", ln, "L", true, 0, "")
	}

	pdf.SetFont(font, "", 9)
	pdf.SetTextColor(51, 51, 51)
	for i, item := range items {
		fill := i%2 == 0
		pdf.SetFillColor(249, 249, 249)
		pdf.CellFormat(widths[0], 7, item.Description, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 7, domain.FormatMoney(item.Rate), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[3], 7, domain.FormatMoney(item.Amount()), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[4], 7, item.Notes, "1", 1, "L", fill, 0, "")
	}
}

// totalsBlock prints the four fixed totals lines. Values come from the
// domain totals functions on the same inputs the live figures use.
func (r *Renderer) totalsBlock(pdf *gofpdf.Fpdf, record domain.EstimateRecord, font string, pr, pg, pb, sr, sg, sb int) {
	subtotal := domain.Subtotal(record.Items)
	tax := domain.TaxAmount(record.Items, record.TaxRatePercent)
	discount := domain.DiscountAmount(subtotal, record.Discount)
	total := domain.GrandTotal(record.Items, record.TaxRatePercent, record.Discount)

	discountLabel := "Discount (Fixed):"
	if record.Discount.Type == domain.DiscountPercentage {
		discountLabel = fmt.Sprintf("Discount (%s%%):", trimZeros(record.Discount.Value))
	}

	pdf.SetDrawColor(pr, pg, pb)
	pdf.Line(14, pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(3)

	row := func(label, value string, grand bool) {
		if grand {
			pdf.SetFont(font, "B", 14)
			pdf.SetTextColor(pr, pg, pb)
		} else {
			pdf.SetFont(font, "", 10)
			pdf.SetTextColor(sr, sg, sb)
		}
		pdf.Cell(100, 7, "")
		pdf.CellFormat(46, 7, label, "", 0, "R", false, 0, "")
		if !grand {
			pdf.SetTextColor(51, 51, 51)
		}
		pdf.CellFormat(36, 7, value, "", 1, "R", false, 0, "")
	}

	row("Subtotal:", domain.FormatMoney(subtotal), false)
	row(discountLabel, domain.FormatMoney(discount), false)
	row(fmt.Sprintf("Tax (%s%%):", trimZeros(record.TaxRatePercent)), domain.FormatMoney(tax), false)

	pdf.SetDrawColor(sr, sg, sb)
	pdf.Line(110, pdf.GetY()+1, 196, pdf.GetY()+1)
	pdf.Ln(3)
	row("Total:", domain.FormatMoney(total), true)
}

// trimZeros renders a rate like 10.0 as "10" and 7.5 as "7.5"
func trimZeros(v float64) string {
	s := fmt.Sprintf("%g", v)
	return s
}

func (r *Renderer) placeLogo(pdf *gofpdf.Fpdf, logo string) error {
	imageType, raw, err := decodeDataURI(logo)
	if err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(raw))
	if pdf.Err() {
		return fmt.Errorf("failed to register logo image: %s", pdf.Error())
	}
	pdf.ImageOptions("logo", 150, 14, 46, 0, false, opts, 0, "")
	return nil
}

// placeQRCode embeds a small QR code in the bottom-left corner linking
// to the estimate's download endpoint.
func (r *Renderer) placeQRCode(pdf *gofpdf.Fpdf, estimateID uuid.UUID) error {
	url := fmt.Sprintf("%s/api/v1/estimates/%s/download", r.publicBaseURL, estimateID)

	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to create QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(200)); err != nil {
		return fmt.Errorf("failed to encode QR code: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, &buf)
	if pdf.Err() {
		return fmt.Errorf("failed to register QR code image: %s", pdf.Error())
	}
	pdf.ImageOptions("qr", 14, 255, 18, 18, false, opts, 0, "")
	return nil
}
