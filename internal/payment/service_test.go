package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-be/internal/customer"
	"storefront-be/internal/metrics"
	"storefront-be/internal/notify"
	"storefront-be/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByOrder(ctx context.Context, orderID int64) (*Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, p *Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, p *Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetMethod(ctx context.Context, id int64) (*Method, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Method), args.Error(1)
}

func (m *MockRepository) GetMethodName(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// MockOrderRepository is a mock for the order repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) NextCounter(ctx context.Context, scope string, floor int64) (int64, error) {
	args := m.Called(ctx, scope, floor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CreateOrderTx(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkProcessingIfPending(ctx context.Context, orderID int64, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, orderID, paidAt)
	return args.Bool(0), args.Error(1)
}

// MockCustomerRepository is a mock for the customer repository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CreateWithAddress(ctx context.Context, c *customer.Customer, addr *customer.Address) (*customer.Customer, error) {
	args := m.Called(ctx, c, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetAddress(ctx context.Context, addressID, customerID int64) (*customer.Address, error) {
	args := m.Called(ctx, addressID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Address), args.Error(1)
}

func (m *MockCustomerRepository) CreateAddress(ctx context.Context, addr *customer.Address) (*customer.Address, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Address), args.Error(1)
}

// MockNotifier is a mock for the notification service
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OrderProcessing(ctx context.Context, data notify.OrderEmailData) {
	m.Called(ctx, data)
}

func (m *MockNotifier) OrderReceipt(ctx context.Context, data notify.OrderEmailData) {
	m.Called(ctx, data)
}

func (m *MockNotifier) OrderInvoice(ctx context.Context, data notify.OrderEmailData) {
	m.Called(ctx, data)
}

func (m *MockNotifier) OrderStatus(ctx context.Context, data notify.OrderEmailData) {
	m.Called(ctx, data)
}

func successParams(orderID int64) RecordParams {
	return RecordParams{
		OrderID:         orderID,
		PaymentMethodID: 3,
		Amount:          99.5,
		Currency:        "USD",
		BaseAmount:      99.5,
		Status:          StatusSuccess,
		Gateway:         "xenpay",
		TransactionID:   "tx-123",
	}
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstSuccessCreatesAndConfirms", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockCustomerRepo := new(MockCustomerRepository)
		mockNotifier := new(MockNotifier)
		m := metrics.NewCheckout()
		svc := &service{
			repo: mockRepo, orderRepo: mockOrderRepo,
			customerRepo: mockCustomerRepo, notifier: mockNotifier, metrics: m,
		}

		o := &order.Order{ID: 55, OrderedBy: 9, Number: "20260829-1042", Status: order.StatusPending}
		mockOrderRepo.On("GetByID", ctx, int64(55)).Return(o, nil)
		mockRepo.On("GetByOrder", ctx, int64(55)).Return(nil, ErrPaymentNotFound)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil)
		mockOrderRepo.On("MarkProcessingIfPending", ctx, int64(55), mock.AnythingOfType("time.Time")).Return(true, nil)
		mockCustomerRepo.On("FindByID", ctx, int64(9)).
			Return(&customer.Customer{ID: 9, Email: "jane@example.com", FirstName: "Jane"}, nil)
		mockNotifier.On("OrderProcessing", ctx, mock.MatchedBy(func(d notify.OrderEmailData) bool {
			return d.OrderNumber == "20260829-1042" && d.Email == "jane@example.com"
		})).Return()

		// Act
		p, err := svc.Record(ctx, successParams(55))

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusSuccess, p.Status)
		assert.Equal(t, int64(3), p.PaymentMethodID)
		assert.NotNil(t, p.PaidAt)
		assert.Equal(t, uint64(1), m.PaymentsSucceeded.Load())
		mockRepo.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("RepeatedSuccessUpdatesInPlaceWithoutRenotifying", func(t *testing.T) {
		// Arrange: a payment row already exists and the order is past pending
		mockRepo := new(MockRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockCustomerRepo := new(MockCustomerRepository)
		mockNotifier := new(MockNotifier)
		svc := &service{
			repo: mockRepo, orderRepo: mockOrderRepo,
			customerRepo: mockCustomerRepo, notifier: mockNotifier, metrics: metrics.NewCheckout(),
		}

		o := &order.Order{ID: 55, OrderedBy: 9, Status: order.StatusProcessing}
		existing := &Payment{ID: 7, OrderID: 55, Status: StatusSuccess}
		mockOrderRepo.On("GetByID", ctx, int64(55)).Return(o, nil)
		mockRepo.On("GetByOrder", ctx, int64(55)).Return(existing, nil)
		mockRepo.On("Update", ctx, existing).Return(nil)
		mockOrderRepo.On("MarkProcessingIfPending", ctx, int64(55), mock.AnythingOfType("time.Time")).Return(false, nil)

		// Act
		p, err := svc.Record(ctx, successParams(55))

		// Assert: same row updated, customer not emailed again
		assert.NoError(t, err)
		assert.Equal(t, int64(7), p.ID)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockNotifier.AssertNotCalled(t, "OrderProcessing", mock.Anything, mock.Anything)
	})

	t.Run("FailedCallbackDoesNotTouchOrder", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockNotifier := new(MockNotifier)
		svc := &service{
			repo: mockRepo, orderRepo: mockOrderRepo,
			customerRepo: new(MockCustomerRepository), notifier: mockNotifier, metrics: metrics.NewCheckout(),
		}

		params := successParams(55)
		params.Status = StatusFailed

		mockOrderRepo.On("GetByID", ctx, int64(55)).Return(&order.Order{ID: 55, Status: order.StatusPending}, nil)
		mockRepo.On("GetByOrder", ctx, int64(55)).Return(nil, ErrPaymentNotFound)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil)

		// Act
		p, err := svc.Record(ctx, params)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, p.Status)
		assert.Nil(t, p.PaidAt)
		mockOrderRepo.AssertNotCalled(t, "MarkProcessingIfPending", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		mockOrderRepo := new(MockOrderRepository)
		svc := &service{
			repo: mockRepo, orderRepo: mockOrderRepo,
			customerRepo: new(MockCustomerRepository), notifier: new(MockNotifier), metrics: metrics.NewCheckout(),
		}

		mockOrderRepo.On("GetByID", ctx, int64(404)).Return(nil, order.ErrOrderNotFound)

		// Act
		params := successParams(404)
		_, err := svc.Record(ctx, params)

		// Assert
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		// Arrange
		svc := &service{
			repo: new(MockRepository), orderRepo: new(MockOrderRepository),
			customerRepo: new(MockCustomerRepository), notifier: new(MockNotifier), metrics: metrics.NewCheckout(),
		}

		params := successParams(55)
		params.Status = Status("settled")

		// Act
		_, err := svc.Record(ctx, params)

		// Assert
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("TransitionErrorStillRecordsPayment", func(t *testing.T) {
		// Arrange: the status flip fails but the payment row is kept
		mockRepo := new(MockRepository)
		mockOrderRepo := new(MockOrderRepository)
		mockNotifier := new(MockNotifier)
		svc := &service{
			repo: mockRepo, orderRepo: mockOrderRepo,
			customerRepo: new(MockCustomerRepository), notifier: mockNotifier, metrics: metrics.NewCheckout(),
		}

		mockOrderRepo.On("GetByID", ctx, int64(55)).Return(&order.Order{ID: 55, Status: order.StatusPending}, nil)
		mockRepo.On("GetByOrder", ctx, int64(55)).Return(nil, ErrPaymentNotFound)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil)
		mockOrderRepo.On("MarkProcessingIfPending", ctx, int64(55), mock.AnythingOfType("time.Time")).
			Return(false, errors.New("db error"))

		// Act
		p, err := svc.Record(ctx, successParams(55))

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, StatusSuccess, p.Status)
		mockNotifier.AssertNotCalled(t, "OrderProcessing", mock.Anything, mock.Anything)
	})
}

func TestService_StatusByOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Paid", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := &service{repo: mockRepo, metrics: metrics.NewCheckout()}

		mockRepo.On("GetByOrder", ctx, int64(55)).
			Return(&Payment{OrderID: 55, Amount: 99.5, Status: StatusSuccess}, nil)

		res, err := svc.StatusByOrder(ctx, 55)
		assert.NoError(t, err)
		assert.True(t, res.IsPaid)
		assert.Equal(t, 99.5, res.PaymentAmount)
		assert.Equal(t, StatusSuccess, res.PaymentStatus)
	})

	t.Run("NoPaymentYet", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := &service{repo: mockRepo, metrics: metrics.NewCheckout()}

		mockRepo.On("GetByOrder", ctx, int64(55)).Return(nil, ErrPaymentNotFound)

		res, err := svc.StatusByOrder(ctx, 55)
		assert.NoError(t, err)
		assert.False(t, res.IsPaid)
		assert.Equal(t, StatusPending, res.PaymentStatus)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := &service{repo: mockRepo, metrics: metrics.NewCheckout()}

		mockRepo.On("GetByOrder", ctx, int64(55)).Return(nil, errors.New("db error"))

		_, err := svc.StatusByOrder(ctx, 55)
		assert.Error(t, err)
	})
}
