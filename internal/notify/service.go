package notify

import (
	"context"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"

	"go.uber.org/zap"
)

// OrderEmailData is everything a templated order email needs, passed in flat
// so this package stays free of domain imports.
type OrderEmailData struct {
	Email       string
	Name        string
	OrderNumber string
	Status      string
	Total       float64
	Currency    string
}

// Service renders and sends order emails. Every method is best-effort: a
// delivery failure is logged and dead-lettered, never returned, so the
// transactional caller cannot fail because of a notification outage.
type Service interface {
	OrderProcessing(ctx context.Context, data OrderEmailData)
	OrderReceipt(ctx context.Context, data OrderEmailData)
	OrderInvoice(ctx context.Context, data OrderEmailData)
	OrderStatus(ctx context.Context, data OrderEmailData)
}

type service struct {
	mailer  Mailer
	repo    Repository
	metrics *metrics.Checkout
}

func NewService(mailer Mailer, repo Repository, m *metrics.Checkout) Service {
	return &service{mailer: mailer, repo: repo, metrics: m}
}

func (s *service) OrderProcessing(ctx context.Context, data OrderEmailData) {
	s.send(ctx, "order_processing", data.Email,
		fmt.Sprintf("Your order %s is being processed", data.OrderNumber),
		fmt.Sprintf(
			"<p>Hi %s,</p><p>We received your payment of %.2f %s. Order <b>%s</b> is now being processed.</p>",
			data.Name, data.Total, data.Currency, data.OrderNumber,
		),
	)
}

func (s *service) OrderReceipt(ctx context.Context, data OrderEmailData) {
	s.send(ctx, "order_receipt", data.Email,
		fmt.Sprintf("Receipt for order %s", data.OrderNumber),
		fmt.Sprintf(
			"<p>Hi %s,</p><p>Thanks for your purchase. Order <b>%s</b> totals %.2f %s.</p>",
			data.Name, data.OrderNumber, data.Total, data.Currency,
		),
	)
}

func (s *service) OrderInvoice(ctx context.Context, data OrderEmailData) {
	s.send(ctx, "order_invoice", data.Email,
		fmt.Sprintf("Invoice for order %s", data.OrderNumber),
		fmt.Sprintf(
			"<p>Hi %s,</p><p>Your invoice for order <b>%s</b>: %.2f %s.</p>",
			data.Name, data.OrderNumber, data.Total, data.Currency,
		),
	)
}

func (s *service) OrderStatus(ctx context.Context, data OrderEmailData) {
	s.send(ctx, "order_status", data.Email,
		fmt.Sprintf("Order %s is now %s", data.OrderNumber, data.Status),
		fmt.Sprintf(
			"<p>Hi %s,</p><p>Your order <b>%s</b> is now <b>%s</b>.</p>",
			data.Name, data.OrderNumber, data.Status,
		),
	)
}

func (s *service) send(ctx context.Context, kind, to, subject, html string) {
	if to == "" {
		return
	}

	err := s.mailer.Send(ctx, Email{To: to, Subject: subject, HTML: html})
	if err == nil {
		return
	}

	s.metrics.NotificationFailures.Inc()
	logger.FromCtx(ctx).Warn("notification send failed",
		zap.String("kind", kind),
		zap.String("to", to),
		zap.Error(err),
	)

	if dlErr := s.repo.SaveDeadLetter(ctx, kind, to, subject, err.Error()); dlErr != nil {
		logger.FromCtx(ctx).Error("failed to dead-letter notification", zap.Error(dlErr))
	}
}
