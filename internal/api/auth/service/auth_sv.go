package authService

import (
	"VerifID/internal/api/auth"
	"VerifID/internal/entity"
	contextPkg "VerifID/pkg/context"
	jwtPkg "VerifID/pkg/jwt"
	"context"
	"errors"
	"github.com/sirupsen/logrus"
	"time"
)

func (s *authDomainImpl) AdminLogin(c context.Context, req auth.AdminLoginRequest) (auth.AdminLoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.AdminLoginResponse{}, err
	}

	account, err := repo.Accounts.GetByIdentifier(c, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   req.Username,
			}).Warn("Admin login for unknown user")
			return auth.AdminLoginResponse{}, auth.ErrUserNotFound
		}

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get account by identifier")
		return auth.AdminLoginResponse{}, err
	}

	if account.Role != entity.RoleAdmin {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"account_id": account.ID,
			"role":       account.Role,
		}).Warn("Non-admin account attempted admin login")
		return auth.AdminLoginResponse{}, auth.ErrNotAdmin
	}

	if err := s.bcryptUtils.ComparePassword(account.Secret, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"account_id": account.ID,
		}).Warn("Password comparison failed")
		return auth.AdminLoginResponse{}, auth.ErrWrongPassword
	}

	accountData := MakeAccountData(account)

	token, expired, err := jwtPkg.Sign(accountData, time.Hour*1)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.AdminLoginResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"account_id": account.ID,
	}).Info("Admin login successful")

	res := auth.AdminLoginResponse{
		Message: "Login successful",
		User: auth.AccountData{
			ID:         account.ID,
			Identifier: account.Identifier,
			Role:       account.Role,
		},
		Token: auth.TokenData{
			AccessToken:      token,
			ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
		},
	}

	return res, nil
}

func (s *authDomainImpl) IndividualLogin(c context.Context, req auth.IndividualLoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginResponse{}, err
	}

	account, err := repo.Accounts.GetByIdentifier(c, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Individual login for unknown phone number")
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get account by phone number")
		return auth.LoginResponse{}, err
	}

	if account.Role != entity.RoleIndividual {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"account_id": account.ID,
			"role":       account.Role,
		}).Warn("Non-individual account attempted individual login")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := s.bcryptUtils.ComparePassword(account.Secret, req.AccessCode); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"account_id": account.ID,
		}).Warn("Access code comparison failed")
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	accountData := MakeAccountData(account)

	token, expired, err := jwtPkg.Sign(accountData, time.Hour*1)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginResponse{}, err
	}

	res := auth.LoginResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}

	return res, nil
}
