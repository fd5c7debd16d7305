package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

// Gateway webhook payloads are small; 64KB leaves generous headroom
const maxWebhookPayloadSize = 65536

// WebhookHandler receives payment gateway callbacks. The gateway signs
// each payload, so these endpoints skip JWT auth entirely.
type WebhookHandler struct {
	BaseHandler
	webhookService *paymentapp.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *paymentapp.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// WebhookAck is the body the gateway expects back
type WebhookAck struct {
	Received bool   `json:"received"`
	EventID  string `json:"event_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// HandlePaymentWebhook verifies the signature over the raw body and
// feeds the event into the settlement pipeline.
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	// Signature verification needs the raw bytes, so no binding here
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, WebhookAck{Message: "Failed to read request body"})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, WebhookAck{Message: "Payload too large"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, WebhookAck{Message: "Missing Stripe-Signature header"})
		return
	}

	result, err := h.webhookService.Process(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, WebhookAck{Message: "Signature verification failed"})
			return
		}
		// A settlement failure must surface as a server error so the
		// gateway redelivers; the order table absorbs the duplicates
		logger.FromContext(c.Request.Context()).Error("webhook processing failed",
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, WebhookAck{Message: "Processing failed"})
		return
	}

	c.JSON(http.StatusOK, WebhookAck{Received: true, EventID: result.EventID})
}
