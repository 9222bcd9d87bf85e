package verificationRepository

import (
	"VerifID/internal/api/verification"
	"VerifID/internal/entity"
	contextPkg "VerifID/pkg/context"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"time"
)

type RecordDB struct {
	SessionID      sql.NullString `db:"session_id"`
	AccountID      sql.NullString `db:"account_id"`
	FirstName      sql.NullString `db:"first_name"`
	MiddleInitial  sql.NullString `db:"middle_initial"`
	LastName       sql.NullString `db:"last_name"`
	LastFourDigits sql.NullString `db:"last_four_digits"`
	ZipCode        sql.NullString `db:"zip_code"`
	HumanVoice     bool           `db:"human_voice"`
	MatchingVoice  bool           `db:"matching_voice"`
	MatchingFace   bool           `db:"matching_face"`
	Completed      bool           `db:"completed"`
	CreatedAt      sql.NullTime   `db:"created_at"`
	UpdatedAt      sql.NullTime   `db:"updated_at"`
}

func (r RecordDB) toEntity() entity.VerificationRecord {
	return entity.VerificationRecord{
		SessionID:      r.SessionID.String,
		AccountID:      r.AccountID.String,
		FirstName:      r.FirstName.String,
		MiddleInitial:  r.MiddleInitial.String,
		LastName:       r.LastName.String,
		LastFourDigits: r.LastFourDigits.String,
		ZipCode:        r.ZipCode.String,
		HumanVoice:     r.HumanVoice,
		MatchingVoice:  r.MatchingVoice,
		MatchingFace:   r.MatchingFace,
		Completed:      r.Completed,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

func (r *recordRepository) UpsertRecord(c context.Context, record entity.VerificationRecord) error {
	requestID := contextPkg.GetRequestID(c)

	now := time.Now()
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	argsKV := map[string]interface{}{
		"session_id":       record.SessionID,
		"account_id":       record.AccountID,
		"first_name":       record.FirstName,
		"middle_initial":   record.MiddleInitial,
		"last_name":        record.LastName,
		"last_four_digits": record.LastFourDigits,
		"zip_code":         record.ZipCode,
		"human_voice":      record.HumanVoice,
		"matching_voice":   record.MatchingVoice,
		"matching_face":    record.MatchingFace,
		"completed":        record.Completed,
		"created_at":       createdAt,
		"updated_at":       now,
	}

	query, args, err := sqlx.Named(queryUpsertRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpsertRecord")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": record.SessionID,
			"error":      err.Error(),
		}).Error("Database error when upserting verification record")
		return err
	}

	return nil
}

func (r *recordRepository) GetBySessionID(c context.Context, sessionID string) (entity.VerificationRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var record RecordDB

	argsKV := map[string]interface{}{
		"session_id": sessionID,
	}

	query, args, err := sqlx.Named(queryGetBySessionID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBySessionID named query preparation err")
		return entity.VerificationRecord{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.VerificationRecord{}, verification.ErrNoRecordsYet
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Database error when getting verification record")
		return entity.VerificationRecord{}, err
	}

	return record.toEntity(), nil
}

func (r *recordRepository) GetLatest(c context.Context) (entity.VerificationRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var record RecordDB

	query := r.q.Rebind(queryGetLatest)

	if err := r.q.QueryRowxContext(c, query).StructScan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.VerificationRecord{}, verification.ErrNoRecordsYet
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when getting latest verification record")
		return entity.VerificationRecord{}, err
	}

	return record.toEntity(), nil
}
