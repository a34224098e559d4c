package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultStripeURL = "https://api.stripe.com"

// StripeClient speaks the Stripe checkout sessions API, form encoded, over resty.
type StripeClient struct {
	client *resty.Client
}

func NewStripeClient(secretKey, baseURL string, timeout time.Duration) *StripeClient {
	if baseURL == "" {
		baseURL = DefaultStripeURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &StripeClient{client: client}
}

func (s *StripeClient) Name() string { return "stripe" }

type stripeSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
	PaymentIntent json.RawMessage   `json:"payment_intent"`
}

type stripePaymentIntent struct {
	PaymentMethodTypes []string `json:"payment_method_types"`
	LatestCharge       *struct {
		ReceiptURL           string `json:"receipt_url"`
		PaymentMethodDetails struct {
			Type string `json:"type"`
		} `json:"payment_method_details"`
	} `json:"latest_charge"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (s *StripeClient) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	form := map[string]string{
		"mode":                    "payment",
		"success_url":             req.SuccessURL,
		"cancel_url":              req.CancelURL,
		"payment_method_types[0]": "card",
	}
	if req.CustomerEmail != "" {
		form["customer_email"] = req.CustomerEmail
	}
	for i, item := range req.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form[prefix+"[price_data][currency]"] = req.Currency
		form[prefix+"[price_data][unit_amount]"] = strconv.FormatInt(item.UnitAmount, 10)
		form[prefix+"[price_data][product_data][name]"] = item.Name
		if item.Description != "" {
			form[prefix+"[price_data][product_data][description]"] = item.Description
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		form[prefix+"[quantity]"] = strconv.FormatInt(qty, 10)
	}
	for k, v := range req.Metadata {
		form["metadata["+k+"]"] = v
	}

	var out stripeSession
	var apiErr stripeError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Message: err.Error()}
	}
	if resp.IsError() {
		return nil, s.errorFrom(resp, apiErr)
	}
	return &Session{
		ID:            out.ID,
		URL:           out.URL,
		PaymentStatus: out.PaymentStatus,
		Metadata:      out.Metadata,
	}, nil
}

// RetrieveSession expands the latest charge so the receipt url comes back in one call.
func (s *StripeClient) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	var out stripeSession
	var apiErr stripeError
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetQueryParam("expand[]", "payment_intent.latest_charge").
		SetResult(&out).
		SetError(&apiErr).
		Get("/v1/checkout/sessions/{id}")
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Message: err.Error()}
	}
	if resp.IsError() {
		return nil, s.errorFrom(resp, apiErr)
	}

	session := &Session{
		ID:            out.ID,
		URL:           out.URL,
		PaymentStatus: out.PaymentStatus,
		Metadata:      out.Metadata,
	}
	var intent stripePaymentIntent
	if len(out.PaymentIntent) > 0 && json.Unmarshal(out.PaymentIntent, &intent) == nil {
		if intent.LatestCharge != nil {
			session.ReceiptURL = intent.LatestCharge.ReceiptURL
			session.PaymentMethod = intent.LatestCharge.PaymentMethodDetails.Type
		}
		if session.PaymentMethod == "" && len(intent.PaymentMethodTypes) > 0 {
			session.PaymentMethod = intent.PaymentMethodTypes[0]
		}
	}
	if session.PaymentMethod == "" {
		session.PaymentMethod = "card"
	}
	return session, nil
}

func (s *StripeClient) errorFrom(resp *resty.Response, apiErr stripeError) error {
	msg := apiErr.Error.Message
	if msg == "" {
		msg = resp.String()
	}
	if msg == "" {
		msg = resp.Status()
	}
	return &ProviderError{Provider: s.Name(), Status: resp.StatusCode(), Message: msg}
}
