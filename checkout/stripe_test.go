package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeCreateSessionSendsMinorUnitsAsForm(t *testing.T) {
	var got http.Header
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		got = r.Header.Clone()
		form = map[string]string{}
		for k, v := range r.PostForm {
			form[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.test/cs_test_1","payment_status":"unpaid"}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test", srv.URL, 5*time.Second)
	session, err := client.CreateSession(context.Background(), SessionRequest{
		Currency:   "usd",
		SuccessURL: "http://app/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://app/cancel?session_id={CHECKOUT_SESSION_ID}",
		Items: []LineItem{{
			Name:        "Go in Practice",
			Description: "Idiomatic Go",
			UnitAmount:  MinorUnits(40.00),
			Quantity:    1,
		}},
		Metadata: map[string]string{"user_id": "7", "course_id": "3"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.test/cs_test_1", session.URL)
	assert.Equal(t, "Bearer sk_test", got.Get("Authorization"))
	assert.Contains(t, got.Get("Content-Type"), "application/x-www-form-urlencoded")

	assert.Equal(t, "4000", form["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "usd", form["line_items[0][price_data][currency]"])
	assert.Equal(t, "Go in Practice", form["line_items[0][price_data][product_data][name]"])
	assert.Equal(t, "Idiomatic Go", form["line_items[0][price_data][product_data][description]"])
	assert.Equal(t, "1", form["line_items[0][quantity]"])
	assert.Equal(t, "card", form["payment_method_types[0]"])
	assert.Equal(t, "payment", form["mode"])
	assert.Equal(t, "7", form["metadata[user_id]"])
	assert.Equal(t, "3", form["metadata[course_id]"])
	assert.Equal(t, "http://app/success?session_id={CHECKOUT_SESSION_ID}", form["success_url"])
}

func TestStripeProviderErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewStripeClient("bad", srv.URL, 5*time.Second)
	_, err := client.CreateSession(context.Background(), SessionRequest{Currency: "usd"})
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Invalid API Key provided", perr.Message)
	assert.Equal(t, http.StatusBadRequest, perr.Status)
}

func TestStripeRetrieveSessionReadsExpandedCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions/cs_paid", r.URL.Path)
		assert.Equal(t, "payment_intent.latest_charge", r.URL.Query().Get("expand[]"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"cs_paid",
			"payment_status":"paid",
			"metadata":{"user_id":"7","course_id":"3"},
			"payment_intent":{
				"payment_method_types":["card"],
				"latest_charge":{"receipt_url":"https://pay.test/receipt/1","payment_method_details":{"type":"card"}}
			}
		}`))
	}))
	defer srv.Close()

	client := NewStripeClient("sk_test", srv.URL, 5*time.Second)
	session, err := client.RetrieveSession(context.Background(), "cs_paid")
	require.NoError(t, err)

	assert.True(t, session.Paid())
	assert.Equal(t, "https://pay.test/receipt/1", session.ReceiptURL)
	assert.Equal(t, "card", session.PaymentMethod)
	assert.Equal(t, "3", session.Metadata["course_id"])
}

func TestStripeRetrieveSessionWithoutIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_open","payment_status":"unpaid","payment_intent":null}`))
	}))
	defer srv.Close()

	session, err := NewStripeClient("sk_test", srv.URL, time.Second).RetrieveSession(context.Background(), "cs_open")
	require.NoError(t, err)
	assert.False(t, session.Paid())
	assert.Empty(t, session.ReceiptURL)
}

func TestMinorUnitsRounds(t *testing.T) {
	assert.Equal(t, int64(4000), MinorUnits(40))
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.Equal(t, int64(0), MinorUnits(0))
}

func TestMidtransPaymentStatus(t *testing.T) {
	assert.Equal(t, PaymentStatusPaid, midtransPaymentStatus("settlement", ""))
	assert.Equal(t, PaymentStatusPaid, midtransPaymentStatus("capture", "accept"))
	assert.Equal(t, PaymentStatusUnpaid, midtransPaymentStatus("capture", "challenge"))
	assert.Equal(t, PaymentStatusUnpaid, midtransPaymentStatus("pending", ""))
	assert.Equal(t, PaymentStatusUnpaid, midtransPaymentStatus("expire", ""))
}
