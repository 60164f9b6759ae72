package pdf

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billfold/estimate-api/internal/domain"
)

// 1x1 transparent PNG
const testLogo = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func testRecord() domain.EstimateRecord {
	return domain.EstimateRecord{
		Title:          "Website Redesign",
		Number:         "EST-2026-001",
		IssueDate:      "2026-08-01",
		ExpirationDate: "2026-09-01",
		Business: domain.Party{
			Name:    "Acme Studio",
			Phone:   "555-0100",
			Email:   "hello@acme.example",
			Website: "https://acme.example",
			CustomFields: []domain.CustomField{
				{Key: "VAT", Value: "NO123456789"},
			},
		},
		Client: domain.Party{
			Name:    "Globex Corp",
			Phone:   "555-0199",
			Email:   "billing@globex.example",
			Address: "1 Main Street",
		},
		Items: []domain.LineItem{
			{ID: "a", Description: "Design", Rate: 100, Quantity: 2, Taxable: true},
			{ID: "b", Description: "Hosting", Rate: 50, Quantity: 1, Taxable: false},
		},
		TaxRatePercent: 10,
		Discount:       domain.DiscountRule{Type: domain.DiscountFixed, Value: 20},
		CurrencyLabel:  "USD",
		Notes:          "Half due up front.",
		Terms:          "Net 30.",
	}
}

func testSettings() domain.DesignSettings {
	return domain.DesignSettings{
		PrimaryColor:   "#38B2AC",
		SecondaryColor: "#4A5568",
		FontFamily:     domain.FontHelvetica,
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("https://billfold.example", zap.NewNop())

	out, err := r.Render(testRecord(), testSettings(), uuid.New())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderEmptyItems(t *testing.T) {
	r := NewRenderer("", zap.NewNop())

	record := testRecord()
	record.Items = nil

	out, err := r.Render(record, testSettings(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderWithLogo(t *testing.T) {
	r := NewRenderer("", zap.NewNop())

	settings := testSettings()
	settings.Logo = testLogo

	out, err := r.Render(testRecord(), settings, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderBadLogoDoesNotFail(t *testing.T) {
	r := NewRenderer("", zap.NewNop())

	settings := testSettings()
	settings.Logo = "data:image/png;base64,not-base64!!!"

	_, err := r.Render(testRecord(), settings, uuid.New())
	assert.NoError(t, err)
}

func TestRenderAllFonts(t *testing.T) {
	r := NewRenderer("", zap.NewNop())

	for _, f := range []domain.FontFamily{domain.FontHelvetica, domain.FontCourier, domain.FontTimes} {
		settings := testSettings()
		settings.FontFamily = f

		_, err := r.Render(testRecord(), settings, uuid.New())
		assert.NoError(t, err, "font %s", f)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "estimate-EST-2026-001.pdf", Filename("EST-2026-001"))
	assert.Equal(t, "estimate-42.pdf", Filename("42"))
}

func TestDecodeDataURI(t *testing.T) {
	imageType, raw, err := decodeDataURI(testLogo)
	require.NoError(t, err)
	assert.Equal(t, "PNG", imageType)
	assert.NotEmpty(t, raw)

	_, _, err = decodeDataURI("https://example.com/logo.png")
	assert.Error(t, err)

	_, _, err = decodeDataURI("data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=")
	assert.Error(t, err)
}

func TestHexToRGB(t *testing.T) {
	r, g, b := hexToRGB("#38B2AC")
	assert.Equal(t, []int{0x38, 0xB2, 0xAC}, []int{r, g, b})

	r, g, b = hexToRGB("#fff")
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})

	r, g, b = hexToRGB("garbage")
	assert.Equal(t, []int{0, 0, 0}, []int{r, g, b})
}
