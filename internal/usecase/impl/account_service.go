// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"careauth/config"
	deliverycontext "careauth/internal/delivery/context"
	"careauth/internal/domain/entity"
	domainerrors "careauth/internal/domain/errors"
	"careauth/internal/domain/lifecycle"
	"careauth/internal/domain/repository"
	"careauth/internal/domain/service"
	"careauth/internal/domain/validation"
	"careauth/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyPassword feeds the hash used to equalize login timing for unknown emails.
const dummyPassword = "timing-equalization-placeholder"

// accountService implements the AccountUsecase interface.
type accountService struct {
	accounts  repository.AccountRepository
	hasher    service.PasswordHasher
	validator *validation.CredentialValidator
	publisher service.EventPublisher
	conceal   bool
	logger    *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	Accounts  repository.AccountRepository
	Hasher    service.PasswordHasher
	Validator *validation.CredentialValidator
	Publisher service.EventPublisher `optional:"true"`
	Config    *config.Config         `optional:"true"`
	Logger    *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	conceal := false
	if params.Config != nil && params.Config.Auth != nil {
		conceal = params.Config.Auth.ConcealAccountExistence
	}

	return &accountService{
		accounts:  params.Accounts,
		hasher:    params.Hasher,
		validator: params.Validator,
		publisher: params.Publisher,
		conceal:   conceal,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, rejects duplicate emails, hashes the secret and
// stores the new account.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	reg, err := srv.validator.ValidateRegistration(input.Kind, validation.RegistrationInput{
		Name:           input.Name,
		Email:          input.Email,
		Password:       input.Password,
		Specialization: input.Specialization,
		Age:            input.Age,
	})
	if errors.Is(err, entity.ErrUnknownKind) {
		return nil, domainerrors.ErrUnknownKind.WrapMessage(err.Error())
	}
	if err != nil {
		var verr *domainerrors.ValidationError
		if errors.As(err, &verr) {
			srv.log(ctx).Info("Registration rejected",
				slog.String("kind", input.Kind.String()),
				slog.Any("fields", verr.Fields()),
			)
		}

		return nil, errors.Wrap(err, "validate registration")
	}

	srv.log(ctx).Info("Starting registration", slog.String("kind", reg.Kind.String()), slog.String("email", reg.Email))

	// Fast path only; the unique index decides concurrent races.
	_, err = srv.accounts.FindByEmail(ctx, reg.Kind, reg.Email)
	switch {
	case err == nil:
		return nil, domainerrors.ErrDuplicateEmail.WrapMessage("email already registered for " + reg.Kind.String())
	case !errors.Is(err, repository.ErrAccountNotFound):
		srv.log(ctx).Error("Failed to check existing account", slog.String("kind", reg.Kind.String()), slog.Any("error", err))

		return nil, domainerrors.NewStorageError(err, "find account by email")
	}

	hash, err := srv.hasher.Hash(ctx, reg.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.String("kind", reg.Kind.String()), slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("hash password")
	}

	account := buildAccount(reg, hash)
	if err := srv.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			srv.log(ctx).Info("Duplicate email detected at insert", slog.String("kind", reg.Kind.String()), slog.String("email", reg.Email))

			return nil, domainerrors.ErrDuplicateEmail.WrapMessage("unique index rejected email for " + reg.Kind.String())
		}
		srv.log(ctx).Error("Failed to create account", slog.String("kind", reg.Kind.String()), slog.Any("error", err))

		return nil, domainerrors.NewStorageError(err, "create account")
	}

	srv.log(ctx).Debug("Registration completed", slog.String("kind", reg.Kind.String()), slog.Any("accountID", account.ID))
	srv.publishRegistered(ctx, account)

	return &usecase.RegisterOutput{Account: account.Public()}, nil
}

// Login authenticates an account by email and secret.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if !input.Kind.IsValid() {
		return nil, domainerrors.ErrUnknownKind.WrapMessage(strconv.Quote(input.Kind.String()))
	}

	email := validation.NormalizeEmail(input.Email)

	account, err := srv.accounts.FindByEmail(ctx, input.Kind, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.equalizeTiming(ctx, input.Password)
		srv.log(ctx).Info("Login for unknown account", slog.String("kind", input.Kind.String()), slog.String("email", email))

		if srv.conceal {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown account")
		}

		return nil, domainerrors.ErrAccountNotFound.WrapMessage("no " + input.Kind.String() + " with this email")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to find account", slog.String("kind", input.Kind.String()), slog.Any("error", err))

		return nil, domainerrors.NewStorageError(err, "find account by email")
	}

	ok, err := srv.hasher.Check(ctx, input.Password, account.PasswordHash)
	if err != nil {
		srv.log(ctx).Error("Failed to verify password", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("verify password")
	}
	if !ok {
		srv.log(ctx).Info("Password mismatch", slog.String("kind", input.Kind.String()), slog.Any("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
	}

	srv.log(ctx).Debug("Login succeeded", slog.String("kind", input.Kind.String()), slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{Identity: account.Identity()}, nil
}

// equalizeTiming runs a throwaway comparison so that unknown emails cost about
// as much as a wrong password.
func (srv *accountService) equalizeTiming(ctx context.Context, password string) {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(context.WithoutCancel(ctx), dummyPassword)
		if err != nil {
			srv.log(ctx).Warn("Failed to prepare timing hash", slog.Any("error", err))

			return
		}
		srv.dummyHash = hash
	})

	if srv.dummyHash == "" {
		return
	}
	_, _ = srv.hasher.Check(ctx, password, srv.dummyHash)
}

// publishRegistered emits the AccountRegistered event. Failures are logged and
// never fail the registration, which has already been committed.
func (srv *accountService) publishRegistered(ctx context.Context, account *entity.Account) {
	if srv.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lifecycle.DefaultTimeout)
	defer cancel()

	event := &service.AccountRegisteredEvent{
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		AccountID:    account.ID.String(),
		Kind:         account.Kind.String(),
		Email:        account.Email,
		Name:         account.Name,
		RegisteredAt: registeredAt(account),
	}
	if err := srv.publisher.PublishAccountRegistered(pubCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account registered event", slog.Any("accountID", account.ID), slog.Any("error", err))
	}
}

func buildAccount(reg *validation.Registration, hash string) *entity.Account {
	account := &entity.Account{
		Kind:         reg.Kind,
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: hash,
	}

	switch reg.Kind {
	case entity.KindProvider:
		account.ProviderProfile = &entity.ProviderProfile{Specialization: reg.Specialization}
	case entity.KindRecipient:
		account.RecipientProfile = &entity.RecipientProfile{Age: reg.Age}
	}

	return account
}

func registeredAt(account *entity.Account) time.Time {
	if account.CreatedAt.IsZero() {
		return time.Now().UTC()
	}

	return account.CreatedAt
}
