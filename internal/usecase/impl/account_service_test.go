package impl

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"careauth/config"
	"careauth/internal/domain/entity"
	domainerrors "careauth/internal/domain/errors"
	"careauth/internal/domain/repository"
	"careauth/internal/domain/validation"
	"careauth/internal/infra/auth"
	"careauth/internal/infra/persistence/memory"
	"careauth/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// accountServiceHarness wires the service to the in-memory store and a
// low-cost bcrypt hasher.
type accountServiceHarness struct {
	service  usecase.AccountUsecase
	accounts repository.AccountRepository
}

func newAccountServiceHarness(t *testing.T, cfg *config.Config) accountServiceHarness {
	t.Helper()

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)

	accounts := memory.NewAccountRepository()
	svc := NewAccountService(AccountServiceParams{
		Accounts:  accounts,
		Hasher:    hasher,
		Validator: validation.NewCredentialValidator(),
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return accountServiceHarness{service: svc, accounts: accounts}
}

func annInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Kind:     entity.KindRecipient,
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
		Age:      "30",
	}
}

func TestAccountService_RegisterAndLoginRecipient(t *testing.T) {
	h := newAccountServiceHarness(t, nil)
	ctx := context.Background()

	out, err := h.service.Register(ctx, annInput())
	require.NoError(t, err)
	require.NotNil(t, out.Account)
	assert.Equal(t, "ann@x.com", out.Account.Email)
	assert.Equal(t, entity.KindRecipient, out.Account.Kind)
	require.NotNil(t, out.Account.Age)
	assert.Equal(t, 30, *out.Account.Age)

	stored, err := h.accounts.FindByEmail(ctx, entity.KindRecipient, "ann@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	login, err := h.service.Login(ctx, &usecase.LoginInput{
		Kind:     entity.KindRecipient,
		Email:    "ann@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, login.Identity.ID)
	assert.Equal(t, "Ann", login.Identity.Name)
	assert.Equal(t, entity.KindRecipient, login.Identity.Role)
	require.NotNil(t, login.Identity.Age)
	assert.Equal(t, 30, *login.Identity.Age)
}

func TestAccountService_RegisterAndLoginProvider(t *testing.T) {
	h := newAccountServiceHarness(t, nil)
	ctx := context.Background()

	out, err := h.service.Register(ctx, &usecase.RegisterInput{
		Kind:           entity.KindProvider,
		Name:           "Dr. Bea",
		Email:          "Bea@Clinic.org",
		Password:       "stethoscope",
		Specialization: "Cardiology",
	})
	require.NoError(t, err)
	assert.Equal(t, "bea@clinic.org", out.Account.Email)
	require.NotNil(t, out.Account.Approved)
	assert.False(t, *out.Account.Approved)

	// Login normalizes the submitted email the same way registration does.
	login, err := h.service.Login(ctx, &usecase.LoginInput{
		Kind:     entity.KindProvider,
		Email:    " BEA@clinic.org ",
		Password: "stethoscope",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.KindProvider, login.Identity.Role)
	assert.Equal(t, "Cardiology", login.Identity.Specialization)
	require.NotNil(t, login.Identity.Approved)
	assert.False(t, *login.Identity.Approved)
	assert.Nil(t, login.Identity.Age)
}

func TestAccountService_ShortPasswordCreatesNothing(t *testing.T) {
	h := newAccountServiceHarness(t, nil)
	ctx := context.Background()
	input := annInput()
	input.Password = "abc12"

	for i := 0; i < 3; i++ {
		out, err := h.service.Register(ctx, input)
		assert.Nil(t, out)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	}

	_, err := h.accounts.FindByEmail(ctx, entity.KindRecipient, "ann@x.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountService_ProviderIsValidatedToo(t *testing.T) {
	h := newAccountServiceHarness(t, nil)

	_, err := h.service.Register(context.Background(), &usecase.RegisterInput{
		Kind:     entity.KindProvider,
		Name:     "",
		Email:    "not-an-email",
		Password: "123",
	})

	var verr *domainerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"name", "email", "password", "specialization"}, verr.Fields())
}

func TestAccountService_DuplicateEmail(t *testing.T) {
	h := newAccountServiceHarness(t, nil)
	ctx := context.Background()

	_, err := h.service.Register(ctx, annInput())
	require.NoError(t, err)

	second := annInput()
	second.Email = "ANN@x.com"
	second.Name = "Another Ann"
	out, err := h.service.Register(ctx, second)

	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))

	stored, err := h.accounts.FindByEmail(ctx, entity.KindRecipient, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.Name)
}

func TestAccountService_SameEmailAcrossKinds(t *testing.T) {
	h := newAccountServiceHarness(t, nil)
	ctx := context.Background()

	_, err := h.service.Register(ctx, annInput())
	require.NoError(t, err)

	_, err = h.service.Register(ctx, &usecase.RegisterInput{
		Kind:           entity.KindProvider,
		Name:           "Ann",
		Email:          "ann@x.com",
		Password:       "secret1",
		Specialization: "Nursing",
	})
	assert.NoError(t, err)
}

func TestAccountService_LoginFailures(t *testing.T) {
	h := newAccountServiceHarness(t, nil)
	ctx := context.Background()
	_, err := h.service.Register(ctx, annInput())
	require.NoError(t, err)

	_, err = h.service.Login(ctx, &usecase.LoginInput{Kind: entity.KindRecipient, Email: "ann@x.com", Password: "secret2"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.False(t, errors.Is(err, domainerrors.ErrAccountNotFound))

	_, err = h.service.Login(ctx, &usecase.LoginInput{Kind: entity.KindRecipient, Email: "bob@x.com", Password: "secret1"})
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	// The recipient account is invisible to provider logins.
	_, err = h.service.Login(ctx, &usecase.LoginInput{Kind: entity.KindProvider, Email: "ann@x.com", Password: "secret1"})
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_ConcealAccountExistence(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{ConcealAccountExistence: true}}
	h := newAccountServiceHarness(t, cfg)

	_, err := h.service.Login(context.Background(), &usecase.LoginInput{
		Kind:     entity.KindRecipient,
		Email:    "nobody@x.com",
		Password: "secret1",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.False(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_UnknownKind(t *testing.T) {
	h := newAccountServiceHarness(t, nil)
	ctx := context.Background()
	input := annInput()
	input.Kind = entity.Kind("admin")

	_, err := h.service.Register(ctx, input)
	assert.True(t, errors.Is(err, domainerrors.ErrUnknownKind))

	_, err = h.service.Login(ctx, &usecase.LoginInput{Kind: entity.Kind("admin"), Email: "ann@x.com", Password: "secret1"})
	assert.True(t, errors.Is(err, domainerrors.ErrUnknownKind))
}

func TestAccountService_ConcurrentSameEmailLeavesOneRecord(t *testing.T) {
	h := newAccountServiceHarness(t, nil)
	ctx := context.Background()

	const attempts = 8
	results := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := annInput()
			input.Name = "Ann " + strconv.Itoa(i)
			_, results[i] = h.service.Register(ctx, input)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++

			continue
		}
		assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	_, err := h.accounts.FindByEmail(ctx, entity.KindRecipient, "ann@x.com")
	assert.NoError(t, err)
}
