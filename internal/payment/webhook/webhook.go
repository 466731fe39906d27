package webhook

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"storefront-be/internal/currency"
	"storefront-be/internal/logger"
	"storefront-be/internal/payment"
	"storefront-be/internal/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Payload is the JSON a payment gateway posts back after a client pays.
type Payload struct {
	OrderID         int64           `json:"orderId"`
	PaymentMethodID int64           `json:"paymentMethodId"`
	TransactionID   string          `json:"transactionId"`
	Gateway         string          `json:"gateway"`
	Amount          float64         `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	RawResponse     json.RawMessage `json:"rawResponse"`
}

type Handler struct {
	paymentSvc    payment.Service
	currencies    currency.Resolver
	channelCode   string
	callbackToken string
}

func NewHandler(paymentSvc payment.Service, currencies currency.Resolver, channelCode, callbackToken string) *Handler {
	return &Handler{
		paymentSvc:    paymentSvc,
		currencies:    currencies,
		channelCode:   channelCode,
		callbackToken: callbackToken,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhooks/payment", h.handle)
}

func (h *Handler) handle(c echo.Context) error {
	// Gateways authenticate with a shared callback token header.
	if err := h.verifyToken(c.Request()); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
	}

	var payload Payload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
	}
	if payload.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "orderId is required"})
	}

	status, ok := mapStatus(payload.Status)
	if !ok {
		// Unknown statuses are acknowledged and dropped so the gateway
		// stops retrying them.
		logger.FromCtx(c.Request().Context()).Info("ignoring unknown payment status",
			zap.String("status", payload.Status),
		)
		return c.NoContent(http.StatusOK)
	}

	baseAmount, err := h.toBaseAmount(c, payload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	_, err = h.paymentSvc.Record(c.Request().Context(), payment.RecordParams{
		OrderID:         payload.OrderID,
		PaymentMethodID: payload.PaymentMethodID,
		Amount:          payload.Amount,
		Currency:        payload.Currency,
		BaseAmount:      baseAmount,
		Status:          status,
		Gateway:         payload.Gateway,
		TransactionID:   payload.TransactionID,
		RawResponse:     payload.RawResponse,
	})
	if err != nil {
		logger.FromCtx(c.Request().Context()).Error("failed to record payment callback",
			zap.Int64("order_id", payload.OrderID),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to record payment"})
	}

	return c.String(http.StatusOK, "ok")
}

func (h *Handler) verifyToken(r *http.Request) error {
	got := r.Header.Get("X-Callback-Token")
	if h.callbackToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.callbackToken)) != 1 {
		return echo.ErrUnauthorized
	}
	return nil
}

// toBaseAmount converts the callback amount into the store default currency
// when the gateway charged in a display currency.
func (h *Handler) toBaseAmount(c echo.Context, payload Payload) (float64, error) {
	ctx := c.Request().Context()

	channel, err := h.currencies.Channel(ctx, h.channelCode)
	if err != nil {
		return 0, err
	}
	defaultCur, err := h.currencies.DefaultCurrency(channel)
	if err != nil {
		return 0, err
	}

	if payload.Currency == "" || payload.Currency == defaultCur.Code {
		return payload.Amount, nil
	}

	rate, err := h.currencies.ExchangeRate(channel, defaultCur.Code, payload.Currency)
	if err != nil {
		return 0, err
	}
	return utils.RoundMoney(payload.Amount / rate), nil
}

func mapStatus(s string) (payment.Status, bool) {
	switch s {
	case "pending", "PENDING":
		return payment.StatusPending, true
	case "success", "SUCCESS", "PAID":
		return payment.StatusSuccess, true
	case "failed", "FAILED", "EXPIRED":
		return payment.StatusFailed, true
	case "refunded", "REFUNDED":
		return payment.StatusRefunded, true
	}
	return "", false
}
