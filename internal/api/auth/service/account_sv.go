package authService

import (
	"VerifID/internal/api/auth"
	"VerifID/internal/entity"
	contextPkg "VerifID/pkg/context"
	"context"
	"github.com/sirupsen/logrus"
	"time"
)

func (s *accountDomainImpl) CreateAccount(c context.Context, req auth.CreateAccountRequest) error {
	requestID := contextPkg.GetRequestID(c)

	switch req.Role {
	case entity.RoleIndividual:
		if !isAllDigits(req.Identifier, 10) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Individual identifier is not a 10 digit phone number")
			return auth.ErrInvalidIdentifier
		}
		if !isAllDigits(req.Secret, 5) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Individual secret is not a 5 digit access code")
			return auth.ErrInvalidSecret
		}
	case entity.RoleAdmin:
		if req.Identifier == "" {
			return auth.ErrInvalidIdentifier
		}
		if !isStrongSecret(req.Secret) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Admin secret does not meet strength requirements")
			return auth.ErrInvalidSecret
		}
	default:
		return auth.ErrInvalidIdentifier
	}

	hashedSecret, err := s.bcryptUtils.HashPassword(req.Secret)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash account secret")
		return err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate account id")
		return err
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	account := entity.Account{
		ID:         id,
		Identifier: req.Identifier,
		Secret:     hashedSecret,
		Role:       req.Role,
	}

	if err := repo.Accounts.CreateAccount(c, account); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"account_id": id,
		"role":       req.Role,
	}).Info("Account created")

	return nil
}

func (s *accountDomainImpl) GetByIdentifier(c context.Context, identifier string) (entity.Account, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return entity.Account{}, err
	}

	return repo.Accounts.GetByIdentifier(c, identifier)
}

func (s *accountDomainImpl) DeleteAccount(c context.Context, id string) error {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	return repo.Accounts.DeleteAccount(c, id)
}
