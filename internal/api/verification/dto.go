package verification

import "VerifID/internal/entity"

type CreateSessionResponse struct {
	SessionID string            `json:"session_id"`
	Step      entity.WizardStep `json:"step"`
}

type UpdateFieldRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Value     string `json:"value"`
}

type UpdateFieldResponse struct {
	SessionID string          `json:"session_id"`
	Name      string          `json:"name"`
	Validity  entity.Validity `json:"validity"`
}

type AdvanceRequest struct {
	SessionID      string `json:"session_id" validate:"required"`
	FirstName      string `json:"first_name"`
	MiddleInitial  string `json:"middle_initial"`
	LastName       string `json:"last_name"`
	LastFourDigits string `json:"last_four_digits"`
	ZipCode        string `json:"zip_code"`
}

type AdvanceResponse struct {
	SessionID   string            `json:"session_id"`
	Passed      bool              `json:"passed"`
	Step        entity.WizardStep `json:"step"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

type RetreatRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type RetreatResponse struct {
	SessionID string            `json:"session_id"`
	Step      entity.WizardStep `json:"step"`
}

type FinalizeRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type FinalizeResponse struct {
	SessionID string `json:"session_id"`
	Result    string `json:"result"`
}

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type DashboardResponse struct {
	Snapshot          entity.Snapshot `json:"snapshot"`
	CompletionPercent int             `json:"completion_percent"`
}
