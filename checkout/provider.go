// Package checkout talks to hosted checkout providers. The payment service only sees the
// Provider interface; main picks the implementation from configuration.
package checkout

import (
	"context"
	"fmt"
	"math"
)

const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64 // minor units
	Quantity    int64
}

type SessionRequest struct {
	Currency      string
	Items         []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerName  string
	CustomerEmail string
	Metadata      map[string]string
}

// Session is the provider-neutral view of a checkout session.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	PaymentMethod string
	ReceiptURL    string
	Metadata      map[string]string
}

func (s *Session) Paid() bool { return s != nil && s.PaymentStatus == PaymentStatusPaid }

type Provider interface {
	Name() string
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}

// MinorUnits converts a major-unit amount (40.00) to minor units (4000).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ProviderError carries the provider's own message so callers can surface it.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%s status %d)", e.Message, e.Provider, e.Status)
	}
	return e.Message
}
