package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service manages the account lifecycle: registration, authentication and
// role-scoped reads.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new account service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// RegisterInput captures data required to register an account.
type RegisterInput struct {
	Kind         Kind
	Name         string `validate:"required,min=2,max=100"`
	PIN          string `validate:"required,number,min=4,max=6"`
	MobileNumber string `validate:"required,min=7,max=15"`
	Email        string `validate:"required,email"`
}

// Register creates an account of the given kind with a hashed PIN. Users start
// out active; agents and admins stay pending until approved.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Account, error) {
	if _, err := ParseKind(string(input.Kind)); err != nil {
		return Account{}, err
	}
	if err := s.validate.Struct(input); err != nil {
		return Account{}, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	// Friendly pre-check; the store's unique constraint is the authority.
	for _, identifier := range []string{input.MobileNumber, input.Email} {
		if _, err := s.repo.FindByIdentifier(ctx, input.Kind, identifier); err == nil {
			return Account{}, ErrDuplicateAccount
		} else if !errors.Is(err, ErrNotFound) {
			return Account{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.PIN), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	status := StatusPending
	if input.Kind == KindUser {
		status = StatusActive
	}

	acct := Account{
		ID:           uuid.New().String(),
		Kind:         input.Kind,
		Name:         input.Name,
		PINHash:      hash,
		MobileNumber: input.MobileNumber,
		Email:        input.Email,
		Status:       status,
		Balance:      0,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, acct); err != nil {
		return Account{}, err
	}

	return acct, nil
}

// Authenticate verifies an identifier/PIN pair. Unknown identifiers and PIN
// mismatches both return ErrInvalidCredentials; the status gate only applies
// once the credentials themselves checked out.
func (s *Service) Authenticate(ctx context.Context, kind Kind, identifier, pin string) (Account, error) {
	acct, err := s.repo.FindByIdentifier(ctx, kind, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword(acct.PINHash, []byte(pin)); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	if acct.Status != StatusActive {
		return Account{}, ErrPendingApproval
	}

	return acct, nil
}

// Get fetches an account by id within a kind.
func (s *Service) Get(ctx context.Context, kind Kind, id string) (Account, error) {
	return s.repo.FindByID(ctx, kind, id)
}

// List returns all accounts of a kind.
func (s *Service) List(ctx context.Context, kind Kind) ([]Account, error) {
	return s.repo.List(ctx, kind)
}

// Activate transitions an account to active. Activating an already active
// account is a no-op success.
func (s *Service) Activate(ctx context.Context, kind Kind, id string) (Account, error) {
	acct, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		return Account{}, err
	}
	if acct.Status == StatusActive {
		return acct, nil
	}
	if err := s.repo.UpdateStatus(ctx, kind, id, StatusActive); err != nil {
		return Account{}, err
	}
	acct.Status = StatusActive
	return acct, nil
}

func validationDetail(err error) string {
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return "invalid payload"
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		return fmt.Sprintf("field %s failed on %s", f.Field(), f.Tag())
	}
	return err.Error()
}
