package customer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int64) (*Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, c *Customer) (*Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockRepository) CreateWithAddress(ctx context.Context, c *Customer, addr *Address) (*Customer, error) {
	args := m.Called(ctx, c, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockRepository) GetAddress(ctx context.Context, addressID, customerID int64) (*Address, error) {
	args := m.Called(ctx, addressID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Address), args.Error(1)
}

func (m *MockRepository) CreateAddress(ctx context.Context, addr *Address) (*Address, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Address), args.Error(1)
}

const testSecret = "test-secret"

func newTestService(repo Repository) Service {
	return NewService(repo, testSecret, "guest.example.com")
}

func parseClaims(t *testing.T, token string) *CustomClaims {
	t.Helper()
	claims := &CustomClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	assert.NoError(t, err)
	return claims
}

func TestService_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *Customer) bool {
			return c.Email == "jane@example.com" &&
				c.Role == RoleCustomer &&
				CheckPasswordHash("s3cret", c.Password)
		})).Return(&Customer{ID: 42, Email: "jane@example.com", Role: RoleCustomer}, nil)

		// Act
		token, c, err := svc.Register(context.Background(), "jane@example.com", "s3cret")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, int64(42), c.ID)
		claims := parseClaims(t, token)
		assert.Equal(t, int64(42), claims.CustomerID)
		assert.Equal(t, "jane@example.com", claims.Email)
		assert.Equal(t, string(RoleCustomer), claims.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.Anything).
			Return(nil, errors.New(`pq: duplicate key value violates unique constraint "customers_email_key"`))

		// Act
		token, c, err := svc.Register(context.Background(), "jane@example.com", "s3cret")

		// Assert
		assert.ErrorIs(t, err, ErrAccountExists)
		assert.Empty(t, token)
		assert.Nil(t, c)
		mockRepo.AssertExpectations(t)
	})
}

func TestService_Login(t *testing.T) {
	hashed, _ := HashPassword("s3cret")
	registered := &Customer{ID: 42, Email: "jane@example.com", Password: hashed, Role: RoleCustomer}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(registered, nil)

		// Act
		token, c, err := svc.Login(context.Background(), "jane@example.com", "s3cret")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, int64(42), c.ID)
		assert.Equal(t, int64(42), parseClaims(t, token).CustomerID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(registered, nil)

		// Act
		_, _, err := svc.Login(context.Background(), "jane@example.com", "wrong")

		// Assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, ErrCustomerNotFound)

		// Act
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")

		// Assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})

	t.Run("GuestAccountCannotLogIn", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		guest := &Customer{ID: 43, Email: "guest@example.com", Password: hashed, IsGuest: true}
		mockRepo.On("FindByEmail", mock.Anything, "guest@example.com").Return(guest, nil)

		// Act
		_, _, err := svc.Login(context.Background(), "guest@example.com", "s3cret")

		// Assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})
}

func TestService_CreateGuest(t *testing.T) {
	addr := Address{
		Name:        "Jane Doe",
		Phone:       "+62123456",
		Address1:    "Jl. Sudirman 1",
		City:        "Jakarta",
		Province:    "DKI Jakarta",
		PostalCode:  "10110",
		CountryCode: "ID",
		CountryName: "Indonesia",
	}

	t.Run("WithEmail", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, ErrCustomerNotFound)
		mockRepo.On("CreateWithAddress", mock.Anything, mock.MatchedBy(func(c *Customer) bool {
			return c.Email == "jane@example.com" && c.IsGuest && c.Password != ""
		}), mock.Anything).Return(&Customer{ID: 51, Email: "jane@example.com", IsGuest: true}, nil)

		// Act
		c, err := svc.CreateGuest(context.Background(), CreateGuestParams{
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			Address:   addr,
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, int64(51), c.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepeatGuestEmailReusesCustomer", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		earlier := &Customer{ID: 51, Email: "jane@example.com", IsGuest: true}
		mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(earlier, nil)
		mockRepo.On("CreateAddress", mock.Anything, mock.MatchedBy(func(a *Address) bool {
			return a.CustomerID == 51 && a.City == "Jakarta"
		})).Return(&Address{ID: 12, CustomerID: 51}, nil)

		// Act
		c, err := svc.CreateGuest(context.Background(), CreateGuestParams{
			Email:   "jane@example.com",
			Address: addr,
		})

		// Assert: a second guest order must not try to insert a duplicate
		// customer row.
		assert.NoError(t, err)
		assert.Equal(t, int64(51), c.ID)
		mockRepo.AssertNotCalled(t, "CreateWithAddress", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmailBelongsToAccount", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		registered := &Customer{ID: 42, Email: "jane@example.com", IsGuest: false}
		mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(registered, nil)

		// Act
		c, err := svc.CreateGuest(context.Background(), CreateGuestParams{
			Email:   "jane@example.com",
			Address: addr,
		})

		// Assert
		assert.ErrorIs(t, err, ErrAccountExists)
		assert.Nil(t, c)
		mockRepo.AssertNotCalled(t, "CreateWithAddress", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoEmailGetsPlaceholder", func(t *testing.T) {
		// Arrange
		mockRepo := new(MockRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("CreateWithAddress", mock.Anything, mock.MatchedBy(func(c *Customer) bool {
			return strings.HasSuffix(c.Email, "@guest.example.com") && c.IsGuest
		}), mock.Anything).Return(&Customer{ID: 52, IsGuest: true}, nil)

		// Act
		c, err := svc.CreateGuest(context.Background(), CreateGuestParams{Address: addr})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, int64(52), c.ID)
		mockRepo.AssertExpectations(t)
	})
}

func TestGenerateJWT(t *testing.T) {
	t.Run("EmptySecret", func(t *testing.T) {
		// Act
		token, err := GenerateJWT("", 1, "customer", "jane@example.com")

		// Assert
		assert.Error(t, err)
		assert.Empty(t, token)
	})
}
