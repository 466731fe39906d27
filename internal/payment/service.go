package payment

import (
	"context"
	"time"

	"storefront-be/internal/customer"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/notify"
	"storefront-be/internal/order"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	// Record upserts the gateway callback into the order's single payment
	// row and drives the order status transition on success.
	Record(ctx context.Context, params RecordParams) (*Payment, error)

	// StatusByOrder answers the client-facing "is my order paid" poll.
	StatusByOrder(ctx context.Context, orderID int64) (*StatusResult, error)
}

type service struct {
	repo         Repository
	orderRepo    order.Repository
	customerRepo customer.Repository
	notifier     notify.Service
	metrics      *metrics.Checkout
}

func NewService(
	repo Repository,
	orderRepo order.Repository,
	customerRepo customer.Repository,
	notifier notify.Service,
	m *metrics.Checkout,
) Service {
	return &service{
		repo:         repo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
		metrics:      m,
	}
}

func (s *service) Record(ctx context.Context, params RecordParams) (*Payment, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("order_id", params.OrderID),
		zap.String("gateway", params.Gateway),
		zap.String("status", string(params.Status)),
	)

	s.metrics.PaymentCallbacks.Inc()

	if !validStatus(params.Status) {
		return nil, ErrInvalidStatus
	}

	// Confirm the order exists before recording anything against it.
	o, err := s.orderRepo.GetByID(ctx, params.OrderID)
	if err != nil {
		return nil, err
	}

	var paidAt *time.Time
	if params.Status == StatusSuccess {
		now := time.Now()
		paidAt = &now
	}

	// Upsert: at most one payment row per order, updated in place on every
	// subsequent callback.
	p, err := s.repo.GetByOrder(ctx, params.OrderID)
	if err == ErrPaymentNotFound {
		p = &Payment{OrderID: params.OrderID}
		applyParams(p, params, paidAt)
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		applyParams(p, params, paidAt)
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	if params.Status == StatusSuccess {
		s.metrics.PaymentsSucceeded.Inc()
		s.confirmOrder(ctx, o, p, log)
	}

	log.Info("payment callback recorded", zap.Int64("payment_id", p.ID))
	return p, nil
}

// confirmOrder flips a pending order to processing exactly once. Repeated
// success callbacks find the order already processing and do nothing, so the
// customer never gets the notification twice.
func (s *service) confirmOrder(ctx context.Context, o *order.Order, p *Payment, log *zap.Logger) {
	transitioned, err := s.orderRepo.MarkProcessingIfPending(ctx, o.ID, *p.PaidAt)
	if err != nil {
		log.Error("failed to transition order after payment", zap.Error(err))
		return
	}
	if !transitioned {
		log.Info("order already past pending, skipping confirmation")
		return
	}

	c, err := s.customerRepo.FindByID(ctx, o.OrderedBy)
	if err != nil {
		log.Warn("could not resolve customer for notification", zap.Error(err))
		return
	}

	s.notifier.OrderProcessing(ctx, notify.OrderEmailData{
		Email:       c.Email,
		Name:        c.FirstName,
		OrderNumber: o.Number,
		Total:       p.Amount,
		Currency:    p.Currency,
	})
}

func (s *service) StatusByOrder(ctx context.Context, orderID int64) (*StatusResult, error) {
	p, err := s.repo.GetByOrder(ctx, orderID)
	if err == ErrPaymentNotFound {
		return &StatusResult{IsPaid: false, PaymentStatus: StatusPending}, nil
	}
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		IsPaid:        p.Status == StatusSuccess,
		PaymentAmount: utils.RoundMoney(p.Amount),
		PaymentStatus: p.Status,
	}, nil
}

func applyParams(p *Payment, params RecordParams, paidAt *time.Time) {
	p.PaymentMethodID = params.PaymentMethodID
	p.Amount = params.Amount
	p.Currency = params.Currency
	p.BaseAmount = params.BaseAmount
	p.Status = params.Status
	p.Gateway = params.Gateway
	p.TransactionID = params.TransactionID
	p.RawResponse = params.RawResponse
	if paidAt != nil {
		p.PaidAt = paidAt
	}
}

func validStatus(s Status) bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusRefunded:
		return true
	}
	return false
}
