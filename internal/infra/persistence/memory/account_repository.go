// Package memory provides an in-process AccountRepository with the same
// uniqueness semantics as the database schema.
package memory

import (
	"context"
	"sync"
	"time"

	"careauth/internal/domain/entity"
	"careauth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// accountRepository keeps one email-keyed table per kind. Emails are expected
// to be normalized by the caller.
type accountRepository struct {
	mu     sync.RWMutex
	tables map[entity.Kind]map[string]*entity.Account
	now    func() time.Time
}

// NewAccountRepository creates an empty in-memory account store.
func NewAccountRepository() repository.AccountRepository {
	tables := make(map[entity.Kind]map[string]*entity.Account, len(entity.Kinds()))
	for _, kind := range entity.Kinds() {
		tables[kind] = make(map[string]*entity.Account)
	}

	return &accountRepository{
		tables: tables,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// FindByEmail returns a copy of the stored account.
func (repo *accountRepository) FindByEmail(ctx context.Context, kind entity.Kind, email string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	table, ok := repo.tables[kind]
	if !ok {
		return nil, errors.Wrapf(entity.ErrUnknownKind, "%q", kind)
	}

	account, ok := table[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

// Create assigns the ID and timestamps and stores the account. A second
// account with the same email and kind is rejected with ErrEmailTaken.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	table, ok := repo.tables[account.Kind]
	if !ok {
		return errors.Wrapf(entity.ErrUnknownKind, "%q", account.Kind)
	}
	if _, exists := table[account.Email]; exists {
		return repository.ErrEmailTaken
	}

	id, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "generate account id")
	}

	now := repo.now()
	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now
	table[account.Email] = cloneAccount(account)

	return nil
}

func cloneAccount(account *entity.Account) *entity.Account {
	clone := *account
	if account.ProviderProfile != nil {
		profile := *account.ProviderProfile
		clone.ProviderProfile = &profile
	}
	if account.RecipientProfile != nil {
		profile := *account.RecipientProfile
		clone.RecipientProfile = &profile
	}

	return &clone
}
