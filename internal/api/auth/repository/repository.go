package authRepository

import (
	"VerifID/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Accounts: &accountRepository{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Accounts interface {
		CreateAccount(ctx context.Context, account entity.Account) error
		GetByID(ctx context.Context, id string) (entity.Account, error)
		GetByIdentifier(ctx context.Context, identifier string) (entity.Account, error)
		DeleteAccount(ctx context.Context, id string) error
	}

	Commit   func() error
	Rollback func() error
}

type accountRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
