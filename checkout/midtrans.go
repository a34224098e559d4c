package checkout

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransClient creates Snap transactions and reads their status through the core API. The
// order id doubles as the session id. Midtrans amounts are whole currency units, so minor
// units are divided back down.
type MidtransClient struct {
	snap snap.Client
	core coreapi.Client
}

func NewMidtransClient(serverKey string, production bool) *MidtransClient {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	m := &MidtransClient{}
	m.snap.New(serverKey, env)
	m.core.New(serverKey, env)
	return m
}

func (m *MidtransClient) Name() string { return "midtrans" }

func (m *MidtransClient) CreateSession(_ context.Context, req SessionRequest) (*Session, error) {
	orderID := "CH-" + uuid.NewString()

	var gross int64
	items := make([]midtrans.ItemDetails, 0, len(req.Items))
	for i, item := range req.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		price := item.UnitAmount / 100
		gross += price * qty
		items = append(items, midtrans.ItemDetails{
			ID:    orderID + "-" + strconv.Itoa(i+1),
			Name:  truncate(item.Name, 50),
			Price: price,
			Qty:   int32(qty),
		})
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		Items: &items,
	}

	resp, mErr := m.snap.CreateTransaction(snapReq)
	if mErr != nil {
		return nil, &ProviderError{Provider: m.Name(), Status: mErr.StatusCode, Message: mErr.Message}
	}
	return &Session{
		ID:            orderID,
		URL:           resp.RedirectURL,
		PaymentStatus: PaymentStatusUnpaid,
		Metadata:      req.Metadata,
	}, nil
}

func (m *MidtransClient) RetrieveSession(_ context.Context, id string) (*Session, error) {
	resp, mErr := m.core.CheckTransaction(id)
	if mErr != nil {
		return nil, &ProviderError{Provider: m.Name(), Status: mErr.StatusCode, Message: mErr.Message}
	}
	return &Session{
		ID:            id,
		PaymentStatus: midtransPaymentStatus(resp.TransactionStatus, resp.FraudStatus),
		PaymentMethod: resp.PaymentType,
	}, nil
}

// settlement and non-challenged capture are the only states where money has moved.
func midtransPaymentStatus(transactionStatus, fraudStatus string) string {
	switch strings.ToLower(transactionStatus) {
	case "settlement":
		return PaymentStatusPaid
	case "capture":
		if strings.ToLower(fraudStatus) == "challenge" {
			return PaymentStatusUnpaid
		}
		return PaymentStatusPaid
	}
	return PaymentStatusUnpaid
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
