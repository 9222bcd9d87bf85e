package authService

import (
	"VerifID/internal/api/auth"
	authRepository "VerifID/internal/api/auth/repository"
	"VerifID/internal/entity"
	"VerifID/pkg/bcrypt"
	"VerifID/pkg/utils"
	"context"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	Auth() AuthDomain
	Account() AccountDomain
	GetRepository() authRepository.Repository
}

type AuthDomain interface {
	AdminLogin(c context.Context, req auth.AdminLoginRequest) (auth.AdminLoginResponse, error)
	IndividualLogin(c context.Context, req auth.IndividualLoginRequest) (auth.LoginResponse, error)
}

type AccountDomain interface {
	CreateAccount(c context.Context, req auth.CreateAccountRequest) error
	GetByIdentifier(c context.Context, identifier string) (entity.Account, error)
	DeleteAccount(c context.Context, id string) error
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils

	authDomain    AuthDomain
	accountDomain AccountDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) Account() AccountDomain {
	return a.accountDomain
}

func (a *authService) GetRepository() authRepository.Repository {
	return a.authRepository
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
}

type accountDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		log:            log,
		authRepository: authRepo,
		bcryptUtils:    bcryptUtils,
		utils:          utils,

		authDomain:    &authDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils},
		accountDomain: &accountDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils, utils: utils},
	}
}
