package authRepository

import (
	"VerifID/internal/api/auth"
	"VerifID/internal/entity"
	contextPkg "VerifID/pkg/context"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"time"
)

type AccountDB struct {
	ID         sql.NullString `db:"id"`
	Identifier sql.NullString `db:"identifier"`
	Secret     sql.NullString `db:"secret"`
	Role       sql.NullString `db:"role"`
	CreatedAt  sql.NullTime   `db:"created_at"`
	UpdatedAt  sql.NullTime   `db:"updated_at"`
}

func (a AccountDB) toEntity() entity.Account {
	return entity.Account{
		ID:         a.ID.String,
		Identifier: a.Identifier.String,
		Secret:     a.Secret.String,
		Role:       entity.AccountRole(a.Role.String),
		CreatedAt:  a.CreatedAt.Time,
		UpdatedAt:  a.UpdatedAt.Time,
	}
}

func (r *accountRepository) CreateAccount(c context.Context, account entity.Account) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         account.ID,
		"identifier": account.Identifier,
		"secret":     account.Secret,
		"role":       account.Role,
		"created_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateAccount, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateAccount")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "accounts_identifier_key" {
					r.log.WithFields(logrus.Fields{
						"request_id": requestID,
						"error":      err.Error(),
					}).Warn("Identifier already exists")
					return auth.ErrIdentifierAlreadyExists
				}
			}
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating account")

		return err
	}

	return nil
}

func (r *accountRepository) GetByID(c context.Context, id string) (entity.Account, error) {
	requestID := contextPkg.GetRequestID(c)
	var account AccountDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")

		return entity.Account{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("GetByID no rows found")
			return entity.Account{}, auth.ErrUserNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when getting account by id")

		return entity.Account{}, err
	}

	return account.toEntity(), nil
}

func (r *accountRepository) GetByIdentifier(c context.Context, identifier string) (entity.Account, error) {
	requestID := contextPkg.GetRequestID(c)
	var account AccountDB

	argsKV := map[string]interface{}{
		"identifier": identifier,
	}

	query, args, err := sqlx.Named(queryGetByIdentifier, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByIdentifier named query preparation err")

		return entity.Account{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("GetByIdentifier no rows found")
			return entity.Account{}, auth.ErrUserNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when getting account by identifier")

		return entity.Account{}, err
	}

	return account.toEntity(), nil
}

func (r *accountRepository) DeleteAccount(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteAccount, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteAccount named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting account")
		return err
	}

	return nil
}
