package postgres

import (
	"context"

	"careauth/internal/domain/entity"
	"careauth/internal/domain/repository"
	"careauth/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements repository.AccountRepository with one table per kind.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByEmail looks up an account by its normalized email within one kind's table.
func (repo *accountRepository) FindByEmail(ctx context.Context, kind entity.Kind, email string) (*entity.Account, error) {
	switch kind {
	case entity.KindProvider:
		var m model.ProviderAccountModel
		if err := repo.takeByEmail(ctx, email, &m); err != nil {
			return nil, err
		}

		return toProviderAccount(&m), nil
	case entity.KindRecipient:
		var m model.RecipientAccountModel
		if err := repo.takeByEmail(ctx, email, &m); err != nil {
			return nil, err
		}

		return toRecipientAccount(&m), nil
	default:
		return nil, errors.Wrapf(entity.ErrUnknownKind, "%q", kind)
	}
}

// Create inserts the account and copies the generated ID and timestamps back.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	id, err := uuid.NewV7()
	if err != nil {
		return errors.Wrap(err, "generate account id")
	}

	switch account.Kind {
	case entity.KindProvider:
		m := fromProviderAccount(account)
		m.ID = id
		if err := repo.insert(ctx, m); err != nil {
			return err
		}
		account.ID, account.CreatedAt, account.UpdatedAt = m.ID, m.CreatedAt, m.UpdatedAt
	case entity.KindRecipient:
		m := fromRecipientAccount(account)
		m.ID = id
		if err := repo.insert(ctx, m); err != nil {
			return err
		}
		account.ID, account.CreatedAt, account.UpdatedAt = m.ID, m.CreatedAt, m.UpdatedAt
	default:
		return errors.Wrapf(entity.ErrUnknownKind, "%q", account.Kind)
	}

	return nil
}

func (repo *accountRepository) takeByEmail(ctx context.Context, email string, dest any) error {
	err := repo.db.WithContext(ctx).Where("email = ?", email).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrAccountNotFound
	}

	return errors.Wrap(err, "find account by email")
}

func (repo *accountRepository) insert(ctx context.Context, value any) error {
	err := repo.db.WithContext(ctx).Create(value).Error
	switch {
	case err == nil:
		return nil
	case isUniqueConstraintViolation(err):
		return errors.Wrap(repository.ErrEmailTaken, err.Error())
	case isCheckConstraintViolation(err):
		return errors.Wrap(err, "account violates table constraint")
	default:
		return errors.Wrap(err, "insert account")
	}
}

func toProviderAccount(m *model.ProviderAccountModel) *entity.Account {
	return &entity.Account{
		ID:           m.ID,
		Kind:         entity.KindProvider,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		ProviderProfile: &entity.ProviderProfile{
			Specialization: m.Specialization,
			Approved:       m.Approved,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toRecipientAccount(m *model.RecipientAccountModel) *entity.Account {
	return &entity.Account{
		ID:               m.ID,
		Kind:             entity.KindRecipient,
		Name:             m.Name,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		RecipientProfile: &entity.RecipientProfile{Age: m.Age},
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromProviderAccount(account *entity.Account) *model.ProviderAccountModel {
	m := &model.ProviderAccountModel{
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
	}
	if account.ProviderProfile != nil {
		m.Specialization = account.ProviderProfile.Specialization
		m.Approved = account.ProviderProfile.Approved
	}

	return m
}

func fromRecipientAccount(account *entity.Account) *model.RecipientAccountModel {
	m := &model.RecipientAccountModel{
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
	}
	if account.RecipientProfile != nil {
		m.Age = account.RecipientProfile.Age
	}

	return m
}
