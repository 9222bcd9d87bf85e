package biometricService

import (
	"VerifID/internal/api/biometric"
	contextPkg "VerifID/pkg/context"
	"context"
	"io"
	"mime/multipart"

	"github.com/sirupsen/logrus"
)

func readCaptureFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

func (s *biometricService) VerifyVoice(c context.Context, sessionID string, audioFile *multipart.FileHeader) (biometric.VoiceVerifyResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if audioFile == nil {
		return biometric.VoiceVerifyResponse{}, biometric.ErrMissingFile
	}

	if err := s.utils.ValidateAudioFile(audioFile); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Rejected voice capture file")
		return biometric.VoiceVerifyResponse{}, biometric.ErrInvalidAudioFile
	}

	sample, err := readCaptureFile(audioFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to read voice capture file")
		return biometric.VoiceVerifyResponse{}, err
	}

	stagedURL, err := s.s3Client.UploadFile(audioFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to stage voice capture")
		return biometric.VoiceVerifyResponse{}, err
	}
	defer s.deleteStaged(requestID, stagedURL)

	score, err := s.scoringClient.ScoreVoiceSample(sample)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Voice scoring failed")
		// No partial result is recorded on a scoring failure.
		return biometric.VoiceVerifyResponse{}, biometric.ErrScoringUnavailable
	}

	if err := s.recorder.RecordVoiceResult(c, sessionID, *score); err != nil {
		return biometric.VoiceVerifyResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"is_human":   score.IsHuman,
		"is_match":   score.IsMatch,
	}).Info("Voice capture scored")

	return biometric.VoiceVerifyResponse{
		SessionID: sessionID,
		IsHuman:   score.IsHuman,
		IsMatch:   score.IsMatch,
	}, nil
}

// deleteStaged removes a staged capture sample once scoring finished. Samples
// never outlive the request that carried them.
func (s *biometricService) deleteStaged(requestID, stagedURL string) {
	if err := s.s3Client.DeleteFile(stagedURL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"url":        stagedURL,
			"error":      err.Error(),
		}).Error("Failed to delete staged capture sample")
	}
}
