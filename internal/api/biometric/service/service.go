package biometricService

import (
	"VerifID/internal/api/biometric"
	"VerifID/internal/entity"
	"VerifID/pkg/s3"
	scoringPkg "VerifID/pkg/scoring"
	"VerifID/pkg/utils"
	"context"
	"mime/multipart"

	"github.com/sirupsen/logrus"
)

type IBiometricService interface {
	VerifyVoice(c context.Context, sessionID string, audioFile *multipart.FileHeader) (biometric.VoiceVerifyResponse, error)
	VerifyFace(c context.Context, sessionID string, imageFile *multipart.FileHeader) (biometric.FaceVerifyResponse, error)
}

// SessionRecorder writes capture outcomes back into the wizard session.
type SessionRecorder interface {
	RecordVoiceResult(c context.Context, sessionID string, score entity.VoiceScore) error
	RecordFaceResult(c context.Context, sessionID string, matched bool) error
}

type biometricService struct {
	log           *logrus.Logger
	scoringClient scoringPkg.IScoring
	s3Client      s3.ItfS3
	utils         utils.IUtils
	recorder      SessionRecorder
}

func New(log *logrus.Logger,
	scoringClient scoringPkg.IScoring,
	s3Client s3.ItfS3,
	utils utils.IUtils,
	recorder SessionRecorder,
) IBiometricService {
	return &biometricService{
		log:           log,
		scoringClient: scoringClient,
		s3Client:      s3Client,
		utils:         utils,
		recorder:      recorder,
	}
}
