package domain

import (
	"github.com/google/uuid"
)

// Request and response shapes for the HTTP API. Estimate fields carry no
// numeric range validation beyond the discount rule: negative rates and
// quantities pass through arithmetically as credit lines.

// SignupRequest creates a local account
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"required,max=200"`
}

// LoginRequest authenticates a local account
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the public view of a user
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   string    `json:"createdAt"` // ISO 8601
}

// AuthResponse carries the signed token and the authenticated user
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// LineItemRequest is one billable row in an estimate request. An empty
// id is assigned server-side; reordering between requests keeps ids stable.
type LineItemRequest struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
	Quantity    int     `json:"quantity"`
	Taxable     bool    `json:"taxable"`
	Notes       string  `json:"notes"`
}

// PartyRequest holds business or client details
type PartyRequest struct {
	Name         string        `json:"name" validate:"max=200"`
	Phone        string        `json:"phone" validate:"max=50"`
	Email        string        `json:"email" validate:"max=255"`
	Address      string        `json:"address" validate:"max=500"`
	Website      string        `json:"website" validate:"max=255"`
	CustomFields []CustomField `json:"customFields" validate:"max=50"`
}

// DiscountRequest selects the discount variant and its value
type DiscountRequest struct {
	Type  DiscountType `json:"type" validate:"required,oneof=percentage fixed"`
	Value float64      `json:"value" validate:"gte=0"`
}

// EstimateRequest is the full estimate payload for preview and generation.
// Number is optional; a sequential one is assigned when omitted.
type EstimateRequest struct {
	Title          string            `json:"title" validate:"max=200"`
	Number         string            `json:"number" validate:"max=50"`
	IssueDate      string            `json:"issueDate" validate:"max=50"`
	ExpirationDate string            `json:"expirationDate" validate:"max=50"`
	Business       PartyRequest      `json:"business"`
	Client         PartyRequest      `json:"client"`
	Items          []LineItemRequest `json:"items" validate:"dive"`
	TaxRatePercent float64           `json:"taxRatePercent" validate:"gte=0"`
	Discount       DiscountRequest   `json:"discount" validate:"required"`
	CurrencyLabel  string            `json:"currencyLabel" validate:"max=10"`
	Notes          string            `json:"notes"`
	Terms          string            `json:"terms"`
}

// ToRecord converts the request into the computation input. Missing item
// ids are assigned here so the record is well-formed for rendering.
func (r *EstimateRequest) ToRecord() EstimateRecord {
	items := make([]LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		id := it.ID
		if id == "" {
			id = uuid.NewString()
		}
		items = append(items, LineItem{
			ID:          id,
			Description: it.Description,
			Rate:        it.Rate,
			Quantity:    it.Quantity,
			Taxable:     it.Taxable,
			Notes:       it.Notes,
		})
	}

	return EstimateRecord{
		Title:          r.Title,
		Number:         r.Number,
		IssueDate:      r.IssueDate,
		ExpirationDate: r.ExpirationDate,
		Business:       toParty(r.Business),
		Client:         toParty(r.Client),
		Items:          items,
		TaxRatePercent: r.TaxRatePercent,
		Discount:       DiscountRule{Type: r.Discount.Type, Value: r.Discount.Value},
		CurrencyLabel:  r.CurrencyLabel,
		Notes:          r.Notes,
		Terms:          r.Terms,
	}
}

func toParty(p PartyRequest) Party {
	return Party{
		Name:         p.Name,
		Phone:        p.Phone,
		Email:        p.Email,
		Address:      p.Address,
		Website:      p.Website,
		CustomFields: p.CustomFields,
	}
}

// TotalsResponse carries the live figures for an estimate payload
type TotalsResponse struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"taxAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	GrandTotal     float64 `json:"grandTotal"`
	FormattedTotal string  `json:"formattedTotal"`
	CurrencyLabel  string  `json:"currencyLabel"`
}

// GenerateEstimateResponse is returned after a successful generation
type GenerateEstimateResponse struct {
	Summary     EstimateSummary `json:"summary"`
	Filename    string          `json:"filename"`
	DownloadURL string          `json:"downloadUrl"`
}

// UpdateStatusRequest sets an estimate's acceptance status. Any status
// may be set from any other; there are no forbidden transitions.
type UpdateStatusRequest struct {
	Status EstimateStatus `json:"status" validate:"required,oneof=Pending Accepted Declined"`
}

// EstimateStatsResponse holds status counts over the history
type EstimateStatsResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
}

// DesignSettingsRequest updates the caller's document presentation settings
type DesignSettingsRequest struct {
	PrimaryColor   string     `json:"primaryColor" validate:"required,hexcolor"`
	SecondaryColor string     `json:"secondaryColor" validate:"required,hexcolor"`
	FontFamily     FontFamily `json:"fontFamily" validate:"required,oneof=Helvetica Courier Times"`
	Logo           string     `json:"logo"`
}

// DesignSettingsDTO is the public view of design settings
type DesignSettingsDTO struct {
	PrimaryColor   string     `json:"primaryColor"`
	SecondaryColor string     `json:"secondaryColor"`
	FontFamily     FontFamily `json:"fontFamily"`
	Logo           string     `json:"logo,omitempty"`
}

// CurrenciesResponse lists the selectable currency codes. Degraded is
// true when the rate fetch failed and only the default code is offered.
type CurrenciesResponse struct {
	Base     string   `json:"base"`
	Codes    []string `json:"codes"`
	Degraded bool     `json:"degraded"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
