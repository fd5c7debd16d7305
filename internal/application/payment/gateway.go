package payment

import (
	"context"
	"time"
)

// Metadata keys the checkout pipeline attaches to gateway sessions.
// The webhook reads them back to settle stock and attribute orders.
const (
	MetadataHoldRef = "hold_ref"
	MetadataUserID  = "user_id"
)

// EventKind classifies a webhook delivery. Every provider event maps
// to exactly one of these; kinds the pipeline does not act on all
// collapse into EventKindIgnored.
type EventKind string

const (
	EventKindPaymentSucceeded EventKind = "payment_succeeded"
	EventKindPaymentFailed    EventKind = "payment_failed"
	EventKindIgnored          EventKind = "ignored"
)

// LineItem is one priced line sent to the gateway when creating a
// hosted checkout session
type LineItem struct {
	Name      string
	SKU       string
	Quantity  int64
	UnitPrice int64 // minor units
	Currency  string
}

// CreateSessionRequest carries everything the gateway needs to host a
// checkout page for one cart
type CreateSessionRequest struct {
	Lines          []LineItem
	DiscountAmount int64 // minor units, already computed
	CustomerEmail  string
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
}

// CreateSessionResult is the gateway's answer: the session id that
// becomes the local shadow's primary key, and the URL to redirect
// the shopper to
type CreateSessionResult struct {
	SessionID string
	URL       string
	ExpiresAt time.Time
}

// PaymentGateway abstracts the hosted-checkout provider
type PaymentGateway interface {
	// CreateSession opens a hosted checkout session at the provider
	CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResult, error)
}

// WebhookEvent is a provider event translated into neutral terms
type WebhookEvent struct {
	ID        string
	Kind      EventKind
	SessionID string
	Metadata  map[string]string
}

// WebhookDecoder verifies and decodes a raw webhook delivery.
// A bad signature returns shared.ErrInvalidSignature.
type WebhookDecoder interface {
	DecodeEvent(payload []byte, signature string) (*WebhookEvent, error)
}
