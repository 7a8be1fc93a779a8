package auth

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the account repository. Lookups are keyed on the normalized
// email identifier.
type Accounts interface {
	repository.Repository[*Account]

	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error)
	Save(ctx context.Context, account *Account) (*Account, error)
	SaveTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error)
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts                        = (*accounts)(nil)
	_ repository.Repository[*Account] = (*accounts)(nil)
	_ AccountStore                    = (*accounts)(nil)
)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

// FindByEmail returns the account for the normalized email, or nil when none
// exists. Not-found is not an error here; callers project it to a status.
func (a *accounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *accounts) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	account, err := a.GetByIdentifierTx(ctx, tx, NormalizeEmail(email))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

// Save creates the account when its id is unseen and updates every mutable
// field otherwise.
func (a *accounts) Save(ctx context.Context, account *Account) (*Account, error) {
	return a.SaveTx(ctx, a.db, account)
}

func (a *accounts) SaveTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	existing, err := a.GetByIDTx(ctx, tx, account.ID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return a.CreateTx(ctx, tx, account)
		}
		return nil, err
	}

	existing.Email = account.Email
	existing.Salt = account.Salt
	existing.PasswordHash = account.PasswordHash
	existing.ConfirmationCode = account.ConfirmationCode
	existing.Confirmed = account.Confirmed
	existing.PasswordResetCode = account.PasswordResetCode
	existing.FirstName = account.FirstName
	existing.LastName = account.LastName

	return a.UpdateTx(ctx, tx, existing)
}
