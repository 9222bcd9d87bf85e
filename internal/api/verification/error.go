package verification

import (
	"VerifID/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound    = response.NewError(http.StatusNotFound, "verification session not found or expired")
	ErrSubmissionInFlight = response.NewError(http.StatusConflict, "a submission for this session is already in progress")
	ErrUnknownField       = response.NewError(http.StatusBadRequest, "unknown field name")
	ErrValueRejected      = response.NewError(http.StatusBadRequest, "field value violates input constraints")
	ErrNoRecordsYet       = response.NewError(http.StatusNotFound, "no verification records yet")
	ErrWizardCompleted    = response.NewError(http.StatusConflict, "verification already completed")
	ErrStepNotReached     = response.NewError(http.StatusConflict, "earlier wizard steps are not complete")
)
