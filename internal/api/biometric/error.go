package biometric

import (
	"VerifID/pkg/response"
	"net/http"
)

var (
	ErrInvalidAudioFile   = response.NewError(http.StatusBadRequest, "invalid audio file type")
	ErrInvalidImageFile   = response.NewError(http.StatusBadRequest, "invalid image file type")
	ErrScoringUnavailable = response.NewError(http.StatusBadGateway, "scoring service unavailable")
	ErrNoFaceDetected     = response.NewError(http.StatusUnprocessableEntity, "no face detected in image")
	ErrDescriptorMismatch = response.NewError(http.StatusUnprocessableEntity, "face descriptors are not comparable")
	ErrMissingFile        = response.NewError(http.StatusBadRequest, "capture file is required")
)
