package order

import (
	"context"
	"fmt"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/currency"
	"storefront-be/internal/customer"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/notify"
	"storefront-be/internal/product"
	"storefront-be/internal/shipping"
	"storefront-be/internal/tax"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EmailAction string

const (
	ActionResendReceipt   EmailAction = "resend_receipt"
	ActionResendInvoice   EmailAction = "resend_invoice"
	ActionSendStatusEmail EmailAction = "send_status_email"
)

// PaymentMethodStore validates a referenced payment method without pulling in
// the payment domain.
type PaymentMethodStore interface {
	GetMethodName(ctx context.Context, id int64) (string, error)
}

type Service interface {
	// CreateOrder runs the full assembly pipeline: validate, load cart,
	// quote shipping, resolve currency, compute tax, reconcile totals,
	// re-validate stock, create the guest customer if needed, persist.
	// Returns the order and a signed order key for status polling.
	CreateOrder(ctx context.Context, customerID *int64, params CreateOrderParams) (*Order, string, error)

	GetOrder(ctx context.Context, orderID int64, customerID int64, isAdmin bool) (*Order, error)
	ListOrders(ctx context.Context, customerID int64) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status Status) error
	SendEmail(ctx context.Context, orderID int64, action EmailAction) error
}

type service struct {
	repo           Repository
	cartSvc        cart.Service
	customerSvc    customer.Service
	productRepo    product.Repository
	shippingCalc   shipping.Calculator
	taxCalc        tax.Calculator
	currencies     currency.Resolver
	paymentMethods PaymentMethodStore
	notifier       notify.Service
	metrics        *metrics.Checkout
	cfg            *config.Config
}

func NewService(
	repo Repository,
	cartSvc cart.Service,
	customerSvc customer.Service,
	productRepo product.Repository,
	shippingCalc shipping.Calculator,
	taxCalc tax.Calculator,
	currencies currency.Resolver,
	paymentMethods PaymentMethodStore,
	notifier notify.Service,
	m *metrics.Checkout,
	cfg *config.Config,
) Service {
	return &service{
		repo:           repo,
		cartSvc:        cartSvc,
		customerSvc:    customerSvc,
		productRepo:    productRepo,
		shippingCalc:   shippingCalc,
		taxCalc:        taxCalc,
		currencies:     currencies,
		paymentMethods: paymentMethods,
		notifier:       notifier,
		metrics:        m,
		cfg:            cfg,
	}
}

func (s *service) CreateOrder(ctx context.Context, customerID *int64, params CreateOrderParams) (*Order, string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Bool("guest", params.Guest),
	)

	log.Info("order submission started")

	// 1. Validate the payload and resolve the address snapshots.
	shippingAddr, billingAddr, err := s.resolveAddresses(ctx, customerID, params)
	if err != nil {
		return nil, "", err
	}

	// 2. Load the cart.
	cartID, err := uuid.Parse(params.CartID)
	if err != nil {
		return nil, "", ErrCartEmpty
	}
	c, err := s.cartSvc.Get(ctx, cartID)
	if err != nil {
		if err == cart.ErrCartNotFound {
			return nil, "", ErrCartEmpty
		}
		return nil, "", err
	}
	if len(c.Items) == 0 {
		return nil, "", ErrCartEmpty
	}

	// 3. Validate the referenced payment method.
	if params.PaymentMethodID == 0 {
		return nil, "", ErrMissingPaymentMethod
	}
	if _, err := s.paymentMethods.GetMethodName(ctx, params.PaymentMethodID); err != nil {
		return nil, "", fmt.Errorf("payment method lookup failed: %w", err)
	}

	// 4. Recompute shipping for the destination.
	quote, err := s.shippingCalc.QuoteMethod(ctx, params.DeliveryMethodID, shippingAddr.City, c.Subtotal)
	if err != nil {
		if err == shipping.ErrMethodNotFound {
			return nil, "", ErrNoShippingMethod
		}
		return nil, "", err
	}
	if quote.Method.CountryCode != shippingAddr.CountryCode {
		return nil, "", ErrNoShippingMethod
	}
	if shippingAddr.CountryName == "" {
		shippingAddr.CountryName = quote.Method.CountryName
	}
	if billingAddr.CountryName == "" && billingAddr.CountryCode == quote.Method.CountryCode {
		billingAddr.CountryName = quote.Method.CountryName
	}

	// 5. Resolve currencies and the exchange rate.
	channel, err := s.currencies.Channel(ctx, s.cfg.ChannelCode)
	if err != nil {
		return nil, "", err
	}
	defaultCur, err := s.currencies.DefaultCurrency(channel)
	if err != nil {
		return nil, "", err
	}
	currentCur, err := s.currencies.CurrentCurrency(ctx, channel)
	if err != nil {
		return nil, "", err
	}
	rate, err := s.currencies.ExchangeRate(channel, defaultCur.Code, currentCur.Code)
	if err != nil {
		return nil, "", err
	}

	// 6. Tax on the post-discount cart total, plus shipping tax when the
	// method is taxable.
	taxAmount, err := s.taxCalc.Amount(ctx, shippingAddr.CountryCode, c.Total)
	if err != nil {
		return nil, "", err
	}
	if quote.TaxRate > 0 {
		taxAmount = utils.RoundMoney(taxAmount + quote.Cost*quote.TaxRate/100)
	}

	total := utils.RoundMoney(c.Total + taxAmount + quote.Cost)
	customerTotal := utils.RoundMoney(total * rate)

	log.Info("totals computed",
		zap.Float64("subtotal", c.Subtotal),
		zap.Float64("discount", c.Discount),
		zap.Float64("shipping", quote.Cost),
		zap.Float64("tax", taxAmount),
		zap.Float64("total", total),
		zap.String("currency", currentCur.Code),
		zap.Float64("exchange_rate", rate),
	)

	// 7. Reconcile against what the client saw. A stale cart must fail loud
	// before anything persists.
	if !utils.MoneyEqualOneDecimal(total, params.CartTotal) {
		s.metrics.TotalMismatches.Inc()
		log.Warn("order total mismatch",
			zap.Float64("server_total", total),
			zap.Float64("client_total", params.CartTotal),
		)
		return nil, "", ErrTotalChanged
	}

	// 8. Re-validate stock and publication against current product state and
	// build the denormalized line snapshots in the same pass.
	items, err := s.revalidateItems(ctx, c)
	if err != nil {
		return nil, "", err
	}

	// 9. Guest checkout creates the customer record now, after everything
	// that can fail validation has passed.
	orderedBy, err := s.resolveOrderedBy(ctx, customerID, params, shippingAddr)
	if err != nil {
		return nil, "", err
	}

	// 10. Assign the human-readable order number from the atomic counter.
	counter, err := s.repo.NextCounter(ctx, s.cfg.OrderNumberFormat, s.cfg.OrderNumberFloor)
	if err != nil {
		return nil, "", err
	}

	o := &Order{
		Number:             FormatNumber(s.cfg.OrderNumberFormat, counter, time.Now()),
		Counter:            counter,
		OrderedBy:          orderedBy,
		Status:             StatusPending,
		Currency:           currentCur.Code,
		ExchangeRate:       rate,
		Subtotal:           c.Subtotal,
		Discount:           c.Discount,
		ShippingTotal:      quote.Cost,
		Tax:                taxAmount,
		Total:              total,
		CustomerTotal:      customerTotal,
		ShippingMethodID:   quote.Method.ID,
		ShippingMethodName: quote.Method.Name,
		PaymentMethodID:    params.PaymentMethodID,
		ShippingAddress:    *shippingAddr,
		BillingAddress:     *billingAddr,
		OrderNote:          params.OrderNote,
		Items:              items,
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		return nil, "", err
	}

	s.metrics.OrdersCreated.Inc()

	// The cart is superseded by the order; losing this delete only leaves a
	// stale cart behind.
	if err := s.cartSvc.Clear(ctx, cartID); err != nil {
		log.Warn("failed to clear cart after order creation", zap.Error(err))
	}

	orderKey, err := SignOrderKey(s.cfg.JWTSecret, o.ID)
	if err != nil {
		log.Error("failed to sign order key", zap.Error(err))
		return nil, "", err
	}

	s.sendOrderEmail(ctx, o, ActionResendReceipt)

	log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("number", o.Number),
	)

	return o, orderKey, nil
}

func (s *service) resolveAddresses(
	ctx context.Context,
	customerID *int64,
	params CreateOrderParams,
) (*AddressSnapshot, *AddressSnapshot, error) {

	var shippingAddr *AddressSnapshot

	if params.Guest {
		if params.Email == "" {
			return nil, nil, ErrMissingEmail
		}
		if err := validateAddressInput(params.Address); err != nil {
			return nil, nil, err
		}

		// A guest email matching a registered account must log in instead.
		// Checked before anything is created.
		existing, err := s.customerSvc.FindByEmail(ctx, params.Email)
		if err == nil && existing != nil && !existing.IsGuest {
			return nil, nil, customer.ErrAccountExists
		}
		if err != nil && err != customer.ErrCustomerNotFound {
			return nil, nil, err
		}

		shippingAddr = snapshotFromInput(params.Address)
	} else {
		if customerID == nil {
			return nil, nil, ErrUnauthorized
		}
		if params.ShippingAddressID == nil {
			return nil, nil, ErrMissingAddress
		}

		saved, err := s.customerSvc.GetAddress(ctx, *params.ShippingAddressID, *customerID)
		if err != nil {
			return nil, nil, err
		}
		shippingAddr = snapshotFromSaved(saved)
	}

	billingAddr := shippingAddr
	if !params.UseShippingAsBilling {
		switch {
		case params.BillingAddress != nil:
			if err := validateAddressInput(params.BillingAddress); err != nil {
				return nil, nil, err
			}
			billingAddr = snapshotFromInput(params.BillingAddress)
		case params.BillingAddressID != nil && customerID != nil:
			saved, err := s.customerSvc.GetAddress(ctx, *params.BillingAddressID, *customerID)
			if err != nil {
				return nil, nil, err
			}
			billingAddr = snapshotFromSaved(saved)
		}
	}

	return shippingAddr, billingAddr, nil
}

// revalidateItems re-fetches every referenced product and rejects the whole
// submission when any line is unpublished or insufficiently stocked. No
// silent partial fulfilment.
func (s *service) revalidateItems(ctx context.Context, c *cart.Cart) ([]Item, error) {
	ids := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var unavailable []string
	items := make([]Item, 0, len(c.Items))

	for _, line := range c.Items {
		p, ok := products[line.ProductID]
		if !ok {
			unavailable = append(unavailable, fmt.Sprintf("product %d", line.ProductID))
			continue
		}
		if !p.Available(line.OptionIDs, line.Quantity) {
			unavailable = append(unavailable, p.Name)
			continue
		}

		items = append(items, Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			SKU:         p.SKU,
			VariantText: p.VariantText(line.OptionIDs),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    utils.RoundMoney(line.LineTotal()),
			ImageURL:    line.ImageURL,
		})
	}

	if len(unavailable) > 0 {
		s.metrics.ItemsUnavailable.Inc()
		return nil, &UnavailableItemsError{ProductNames: unavailable}
	}

	return items, nil
}

func (s *service) resolveOrderedBy(
	ctx context.Context,
	customerID *int64,
	params CreateOrderParams,
	shippingAddr *AddressSnapshot,
) (int64, error) {

	if !params.Guest {
		return *customerID, nil
	}

	guest, err := s.customerSvc.CreateGuest(ctx, customer.CreateGuestParams{
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Address: customer.Address{
			Name:        shippingAddr.Name,
			Phone:       shippingAddr.Phone,
			Address1:    shippingAddr.Address1,
			Address2:    shippingAddr.Address2,
			City:        shippingAddr.City,
			Province:    shippingAddr.Province,
			PostalCode:  shippingAddr.PostalCode,
			CountryCode: shippingAddr.CountryCode,
			CountryName: shippingAddr.CountryName,
		},
	})
	if err != nil {
		return 0, err
	}
	return guest.ID, nil
}

func (s *service) GetOrder(ctx context.Context, orderID int64, customerID int64, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.OrderedBy != customerID {
		return nil, ErrUnauthorized
	}

	return o, nil
}

func (s *service) ListOrders(ctx context.Context, customerID int64) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) UpdateStatus(ctx context.Context, orderID int64, status Status) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, o.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	o.Status = status
	s.sendOrderEmail(ctx, o, ActionSendStatusEmail)
	return nil
}

func (s *service) SendEmail(ctx context.Context, orderID int64, action EmailAction) error {
	switch action {
	case ActionResendReceipt, ActionResendInvoice, ActionSendStatusEmail:
	default:
		return fmt.Errorf("unknown email action: %s", action)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	s.sendOrderEmail(ctx, o, action)
	return nil
}

// sendOrderEmail is best-effort end to end: the notifier dead-letters its own
// failures and a missing customer only logs.
func (s *service) sendOrderEmail(ctx context.Context, o *Order, action EmailAction) {
	c, err := s.customerSvc.FindByID(ctx, o.OrderedBy)
	if err != nil {
		logger.FromCtx(ctx).Warn("could not resolve customer for order email",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
		return
	}

	data := notify.OrderEmailData{
		Email:       c.Email,
		Name:        c.FirstName,
		OrderNumber: o.Number,
		Status:      string(o.Status),
		Total:       o.CustomerTotal,
		Currency:    o.Currency,
	}

	switch action {
	case ActionResendReceipt:
		s.notifier.OrderReceipt(ctx, data)
	case ActionResendInvoice:
		s.notifier.OrderInvoice(ctx, data)
	case ActionSendStatusEmail:
		s.notifier.OrderStatus(ctx, data)
	}
}

func validateAddressInput(a *AddressInput) error {
	if a == nil {
		return ErrMissingAddress
	}
	if a.Name == "" || a.Address1 == "" || a.City == "" || a.PostalCode == "" || a.CountryCode == "" {
		return ErrMissingAddress
	}
	return nil
}

func snapshotFromInput(a *AddressInput) *AddressSnapshot {
	snap := &AddressSnapshot{
		Name:        a.Name,
		Phone:       a.Phone,
		Address1:    a.Address1,
		City:        a.City,
		Province:    a.Province,
		PostalCode:  a.PostalCode,
		CountryCode: a.CountryCode,
	}
	if a.Address2 != "" {
		snap.Address2 = &a.Address2
	}
	return snap
}

func snapshotFromSaved(a *customer.Address) *AddressSnapshot {
	return &AddressSnapshot{
		Name:        a.Name,
		Phone:       a.Phone,
		Address1:    a.Address1,
		Address2:    a.Address2,
		City:        a.City,
		Province:    a.Province,
		PostalCode:  a.PostalCode,
		CountryCode: a.CountryCode,
		CountryName: a.CountryName,
	}
}
