package payment

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// Payment is the single payment record an order ever has. Gateways that call
// back multiple times update it in place.
type Payment struct {
	ID      int64
	OrderID int64
	// PaymentMethodID is the configured method the gateway reported, zero
	// when the callback carried none.
	PaymentMethodID int64

	Amount   float64
	Currency string
	// BaseAmount is the amount converted into the store default currency.
	BaseAmount float64

	Status        Status
	Gateway       string
	TransactionID string
	RawResponse   json.RawMessage

	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Method is a configured way to pay, referenced by id at checkout.
type Method struct {
	ID      int64
	Name    string
	Gateway string
	Active  bool
}

// RecordParams is one gateway callback normalized by the webhook layer.
type RecordParams struct {
	OrderID         int64
	PaymentMethodID int64
	Amount          float64
	Currency        string
	BaseAmount      float64
	Status          Status
	Gateway         string
	TransactionID   string
	RawResponse     json.RawMessage
}

// StatusResult is the client-facing payment state for an order key lookup.
type StatusResult struct {
	IsPaid        bool    `json:"isPaid"`
	PaymentAmount float64 `json:"paymentAmount"`
	PaymentStatus Status  `json:"paymentStatus"`
}
