package domain

import (
	"github.com/google/uuid"
)

// CustomField is a free-form extra attribute attached to a party.
// Keys are not unique and insertion order is preserved for display.
type CustomField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LineItem is a single billable row. The id is assigned at creation and
// stays stable across reordering; reordering changes position only.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
	Quantity    int     `json:"quantity"`
	Taxable     bool    `json:"taxable"`
	Notes       string  `json:"notes,omitempty"`
}

// Amount returns the item's contribution before tax and discount.
func (i LineItem) Amount() float64 {
	return i.Rate * float64(i.Quantity)
}

// Party holds the business or client details printed on an estimate.
// Website is used for the business column, Address for the client column.
type Party struct {
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	Address      string        `json:"address,omitempty"`
	Website      string        `json:"website,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DiscountRule is a tagged variant: a percentage of the subtotal or a
// fixed amount applied verbatim. Only one variant is active at a time.
type DiscountRule struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// EstimateRecord is the full input for one estimate. It is assembled per
// request and never stored; only the rendered artifact and a summary
// survive generation.
type EstimateRecord struct {
	Title          string       `json:"title"`
	Number         string       `json:"number"`
	IssueDate      string       `json:"issueDate"`
	ExpirationDate string       `json:"expirationDate"`
	Business       Party        `json:"business"`
	Client         Party        `json:"client"`
	Items          []LineItem   `json:"items"`
	TaxRatePercent float64      `json:"taxRatePercent"`
	Discount       DiscountRule `json:"discount"`
	CurrencyLabel  string       `json:"currencyLabel"`
	Notes          string       `json:"notes"`
	Terms          string       `json:"terms"`
}

// EstimateStatus represents the acceptance status of a generated estimate
type EstimateStatus string

const (
	EstimateStatusPending  EstimateStatus = "Pending"
	EstimateStatusAccepted EstimateStatus = "Accepted"
	EstimateStatusDeclined EstimateStatus = "Declined"
)

// IsValid reports whether s is one of the known statuses. Transitions
// between statuses are unrestricted: any status may be set to any other
// at any time by explicit user action.
func (s EstimateStatus) IsValid() bool {
	switch s {
	case EstimateStatusPending, EstimateStatusAccepted, EstimateStatusDeclined:
		return true
	}
	return false
}

// EstimateSummary is the lightweight history entry derived from a
// generated estimate. Entries live in the history store and outlive the
// request that created them.
type EstimateSummary struct {
	ID          uuid.UUID      `json:"id"`
	Number      string         `json:"number"`
	Date        string         `json:"date"`
	ClientName  string         `json:"clientName"`
	TotalAmount string         `json:"totalAmount"`
	ArtifactRef string         `json:"artifactRef"`
	Filename    string         `json:"filename"`
	Status      EstimateStatus `json:"status"`
}
