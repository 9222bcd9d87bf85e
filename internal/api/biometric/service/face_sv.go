package biometricService

import (
	"VerifID/internal/api/biometric"
	contextPkg "VerifID/pkg/context"
	"context"
	"math"
	"mime/multipart"

	"github.com/sirupsen/logrus"
)

// FaceMatchThreshold is the euclidean distance below which two 128-dim
// descriptors are considered the same person.
const FaceMatchThreshold = 0.6

func euclideanDistance(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, biometric.ErrDescriptorMismatch
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

func (s *biometricService) VerifyFace(c context.Context, sessionID string, imageFile *multipart.FileHeader) (biometric.FaceVerifyResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if imageFile == nil {
		return biometric.FaceVerifyResponse{}, biometric.ErrMissingFile
	}

	if err := s.utils.ValidateImageFile(imageFile); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Rejected face capture file")
		return biometric.FaceVerifyResponse{}, biometric.ErrInvalidImageFile
	}

	frame, err := readCaptureFile(imageFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to read face capture file")
		return biometric.FaceVerifyResponse{}, err
	}

	stagedURL, err := s.s3Client.UploadFile(imageFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to stage face capture")
		return biometric.FaceVerifyResponse{}, err
	}
	defer s.deleteStaged(requestID, stagedURL)

	reference, err := s.scoringClient.ReferenceDescriptor()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to obtain reference descriptor")
		return biometric.FaceVerifyResponse{}, biometric.ErrScoringUnavailable
	}
	if len(reference) == 0 {
		return biometric.FaceVerifyResponse{}, biometric.ErrNoFaceDetected
	}

	descriptor, err := s.scoringClient.ExtractFaceDescriptor(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Face descriptor extraction failed")
		// Detector failure never records a non-match.
		return biometric.FaceVerifyResponse{}, biometric.ErrScoringUnavailable
	}
	if len(descriptor) == 0 {
		return biometric.FaceVerifyResponse{}, biometric.ErrNoFaceDetected
	}

	distance, err := euclideanDistance(descriptor, reference)
	if err != nil {
		return biometric.FaceVerifyResponse{}, err
	}

	matched := distance < FaceMatchThreshold

	if err := s.recorder.RecordFaceResult(c, sessionID, matched); err != nil {
		return biometric.FaceVerifyResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"distance":   distance,
		"match":      matched,
	}).Info("Face capture scored")

	return biometric.FaceVerifyResponse{
		SessionID: sessionID,
		Match:     matched,
		Distance:  distance,
	}, nil
}
