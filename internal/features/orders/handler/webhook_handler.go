package handler

import (
	"errors"
	"net/http"

	"order-forwarder/internal/core/logger"
	"order-forwarder/internal/core/metrics"
	"order-forwarder/internal/features/orders/domain"
	"order-forwarder/internal/features/orders/ports"
	"order-forwarder/internal/features/orders/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookHandler receives order-created webhooks and forwards them to billing.
type WebhookHandler struct {
	forwarder ports.OrderForwarder
	validate  *validator.Validate
}

// NewWebhookHandler creates a new instance of WebhookHandler.
func NewWebhookHandler(f ports.OrderForwarder) *WebhookHandler {
	return &WebhookHandler{
		forwarder: f,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HandleOrderCreated forwards one order to the billing API.
// @Summary Forward a shop order
// @Description Creates a billing client and an invoice for the posted order.
// @Accept json
// @Produce json
// @Param order body domain.Order true "Order created webhook payload"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shopify [post]
func (h *WebhookHandler) HandleOrderCreated(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	var order domain.Order
	if err := c.BodyParser(&order); err != nil {
		metrics.OrdersForwarded.WithLabelValues(metrics.OutcomeRejectedPayload).Inc()
		logger.Get().Warn("Rejected malformed webhook payload",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
			Message: "Invalid order payload",
			RayID:   rayID,
		})
	}

	if err := h.validate.Struct(&order); err != nil {
		metrics.OrdersForwarded.WithLabelValues(metrics.OutcomeRejectedPayload).Inc()
		return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
			Message: "Invalid order payload",
			RayID:   rayID,
			Fields:  fieldErrors(err),
		})
	}

	result, err := h.forwarder.Handle(c.UserContext(), &order)
	if err != nil {
		logger.Get().Error("Failed to forward order",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		msg := "Internal Server Error"
		if errors.Is(err, service.ErrClientCreationFailed) {
			msg = service.ErrClientCreationFailed.Error()
		} else if errors.Is(err, service.ErrInvoiceCreationFailed) {
			msg = service.ErrInvoiceCreationFailed.Error()
		}

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	logger.Get().Debug("Webhook handled",
		zap.String("ray_id", rayID),
		zap.Int64("invoice_id", result.InvoiceID),
	)

	return c.Status(http.StatusOK).JSON(StatusResponse{Status: "ok"})
}

// fieldErrors maps each failed field to the rule it broke.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return fields
}

// StatusResponse is returned when the order was forwarded.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// ValidationErrorResponse is returned for payloads that cannot be forwarded.
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	RayID   string            `json:"ray_id"`
	Fields  map[string]string `json:"fields,omitempty"`
}
