package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, password string) (string, *Customer, error)
	Login(ctx context.Context, email, password string) (string, *Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindByID(ctx context.Context, id int64) (*Customer, error)
	GetAddress(ctx context.Context, addressID, customerID int64) (*Address, error)

	// CreateGuest builds a throwaway customer record for guest checkout:
	// placeholder email when none was given, random password, the submitted
	// address saved as the first address.
	CreateGuest(ctx context.Context, params CreateGuestParams) (*Customer, error)
}

type service struct {
	repo             Repository
	jwtSecret        string
	guestEmailDomain string
}

func NewService(repo Repository, jwtSecret, guestEmailDomain string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret, guestEmailDomain: guestEmailDomain}
}

func (s *service) Register(ctx context.Context, email, password string) (string, *Customer, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}

	c, err := s.repo.Create(ctx, &Customer{
		Email:    email,
		Password: hashed,
		Role:     RoleCustomer,
	})
	if err != nil {
		if strings.Contains(err.Error(), "customers_email_key") {
			return "", nil, ErrAccountExists
		}
		log.Error("failed to create customer", zap.String("email", email), zap.Error(err))
		return "", nil, err
	}

	token, err := GenerateJWT(s.jwtSecret, c.ID, string(c.Role), email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Int64("customer_id", c.ID), zap.Error(err))
		return "", nil, err
	}

	return token, c, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *Customer, error) {
	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if c.IsGuest || !CheckPasswordHash(password, c.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(s.jwtSecret, c.ID, string(c.Role), email)
	return token, c, err
}

func (s *service) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *service) FindByID(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetAddress(ctx context.Context, addressID, customerID int64) (*Address, error) {
	return s.repo.GetAddress(ctx, addressID, customerID)
}

func (s *service) CreateGuest(ctx context.Context, params CreateGuestParams) (*Customer, error) {
	email := params.Email
	if email == "" {
		email = fmt.Sprintf("%s@%s", uuid.NewString(), s.guestEmailDomain)
	} else {
		existing, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && !existing.IsGuest:
			return nil, ErrAccountExists
		case err == nil:
			// Repeat guest checkout with the same email reuses the earlier
			// guest record; only the submitted address is new.
			addr := params.Address
			addr.CustomerID = existing.ID
			if _, err := s.repo.CreateAddress(ctx, &addr); err != nil {
				return nil, err
			}
			return existing, nil
		case !errors.Is(err, ErrCustomerNotFound):
			return nil, err
		}
	}

	hashed, err := HashPassword(utils.RandomPassword())
	if err != nil {
		return nil, err
	}

	guest := &Customer{
		Email:     email,
		Password:  hashed,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Role:      RoleCustomer,
		IsGuest:   true,
	}

	addr := params.Address
	c, err := s.repo.CreateWithAddress(ctx, guest, &addr)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("guest customer created",
		zap.Int64("customer_id", c.ID),
	)

	return c, nil
}
