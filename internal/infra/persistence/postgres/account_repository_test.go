package postgres

import (
	"context"
	"testing"

	"careauth/internal/domain/entity"
	"careauth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the account schema.
// TranslateError maps the driver's unique violations to gorm.ErrDuplicatedKey.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestAccountRepository_RecipientRoundTrip(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	account := &entity.Account{
		Kind:             entity.KindRecipient,
		Name:             "Ann",
		Email:            "ann@x.com",
		PasswordHash:     "$2a$04$abcdefghijklmnopqrstuv",
		RecipientProfile: &entity.RecipientProfile{Age: 30},
	}
	require.NoError(t, repo.Create(ctx, account))
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, uuid.Version(7), account.ID.Version())
	assert.False(t, account.CreatedAt.IsZero())

	found, err := repo.FindByEmail(ctx, entity.KindRecipient, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
	assert.Equal(t, entity.KindRecipient, found.Kind)
	assert.Equal(t, "$2a$04$abcdefghijklmnopqrstuv", found.PasswordHash)
	require.NotNil(t, found.RecipientProfile)
	assert.Equal(t, 30, found.RecipientProfile.Age)
	assert.Nil(t, found.ProviderProfile)
}

func TestAccountRepository_ProviderRoundTrip(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	account := &entity.Account{
		Kind:            entity.KindProvider,
		Name:            "Dr. Bea",
		Email:           "bea@clinic.org",
		PasswordHash:    "$2a$04$abcdefghijklmnopqrstuv",
		ProviderProfile: &entity.ProviderProfile{Specialization: "Cardiology"},
	}
	require.NoError(t, repo.Create(ctx, account))

	found, err := repo.FindByEmail(ctx, entity.KindProvider, "bea@clinic.org")
	require.NoError(t, err)
	require.NotNil(t, found.ProviderProfile)
	assert.Equal(t, "Cardiology", found.ProviderProfile.Specialization)
	assert.False(t, found.ProviderProfile.Approved)
}

func TestAccountRepository_NotFound(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))

	_, err := repo.FindByEmail(context.Background(), entity.KindProvider, "ghost@x.com")

	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_UniqueIndexPerTable(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	newRecipient := func() *entity.Account {
		return &entity.Account{
			Kind:             entity.KindRecipient,
			Name:             "Ann",
			Email:            "ann@x.com",
			PasswordHash:     "hash",
			RecipientProfile: &entity.RecipientProfile{Age: 30},
		}
	}
	require.NoError(t, repo.Create(ctx, newRecipient()))

	err := repo.Create(ctx, newRecipient())
	assert.True(t, errors.Is(err, repository.ErrEmailTaken))

	// Same email in the other table is allowed.
	err = repo.Create(ctx, &entity.Account{
		Kind:            entity.KindProvider,
		Name:            "Ann",
		Email:           "ann@x.com",
		PasswordHash:    "hash",
		ProviderProfile: &entity.ProviderProfile{Specialization: "Nursing"},
	})
	assert.NoError(t, err)
}

func TestAccountRepository_UnknownKind(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, entity.Kind("admin"), "ann@x.com")
	assert.True(t, errors.Is(err, entity.ErrUnknownKind))

	err = repo.Create(ctx, &entity.Account{Kind: entity.Kind("admin")})
	assert.True(t, errors.Is(err, entity.ErrUnknownKind))
}
