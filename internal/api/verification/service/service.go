package verificationService

import (
	"VerifID/internal/api/verification"
	verificationRepository "VerifID/internal/api/verification/repository"
	"VerifID/internal/entity"
	broadcastPkg "VerifID/pkg/broadcast"
	"VerifID/pkg/redis"
	"VerifID/pkg/smtp"
	"VerifID/pkg/utils"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type VerificationService interface {
	Wizard() WizardDomain
	Dashboard() DashboardDomain
	GetRepository() verificationRepository.Repository
}

type WizardDomain interface {
	CreateSession(c context.Context, accountID string) (verification.CreateSessionResponse, error)
	UpdateField(c context.Context, req verification.UpdateFieldRequest) (verification.UpdateFieldResponse, error)
	Advance(c context.Context, req verification.AdvanceRequest) (verification.AdvanceResponse, error)
	Retreat(c context.Context, req verification.RetreatRequest) (verification.RetreatResponse, error)
	Finalize(c context.Context, req verification.FinalizeRequest) (verification.FinalizeResponse, error)
	RecordVoiceResult(c context.Context, sessionID string, score entity.VoiceScore) error
	RecordFaceResult(c context.Context, sessionID string, matched bool) error
}

type DashboardDomain interface {
	LatestSnapshot(c context.Context) (verification.DashboardResponse, error)
	SessionSnapshot(c context.Context, sessionID string) (verification.DashboardResponse, error)
}

type verificationService struct {
	log              *logrus.Logger
	verificationRepo verificationRepository.Repository

	wizardDomain    WizardDomain
	dashboardDomain DashboardDomain
}

func (v *verificationService) Wizard() WizardDomain {
	return v.wizardDomain
}

func (v *verificationService) Dashboard() DashboardDomain {
	return v.dashboardDomain
}

func (v *verificationService) GetRepository() verificationRepository.Repository {
	return v.verificationRepo
}

type wizardDomainImpl struct {
	log          *logrus.Logger
	repo         verificationRepository.Repository
	redisServer  redis.IRedis
	broadcastHub broadcastPkg.IBroadcast
	smtpMailer   smtp.ItfSmtp
	utils        utils.IUtils
	validator    *verification.FieldValidator

	// One advance or finalize at a time per session.
	inflight sync.Map
}

type dashboardDomainImpl struct {
	log  *logrus.Logger
	repo verificationRepository.Repository
}

func New(log *logrus.Logger,
	verificationRepo verificationRepository.Repository,
	redisServer redis.IRedis,
	broadcastHub broadcastPkg.IBroadcast,
	smtpMailer smtp.ItfSmtp,
	utils utils.IUtils,
) VerificationService {
	return &verificationService{
		log:              log,
		verificationRepo: verificationRepo,

		wizardDomain: &wizardDomainImpl{
			log:          log,
			repo:         verificationRepo,
			redisServer:  redisServer,
			broadcastHub: broadcastHub,
			smtpMailer:   smtpMailer,
			utils:        utils,
			validator:    verification.NewFieldValidatorFromEnv(),
		},
		dashboardDomain: &dashboardDomainImpl{log: log, repo: verificationRepo},
	}
}
