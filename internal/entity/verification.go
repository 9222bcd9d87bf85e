package entity

import "time"

// Wizard steps, in order. StepResult is terminal on the success path; the
// failure sub-state keeps the session alive so the user can retry.
type WizardStep int

const (
	StepPersonal WizardStep = iota + 1
	StepCard
	StepZip
	StepVoice
	StepResult
)

// Validity is the tri-state marker each field carries: unknown until the
// field is first touched, then valid or invalid per its validator.
type Validity int

const (
	ValidityUnknown Validity = iota
	ValidityValid
	ValidityInvalid
)

const (
	FieldFirstName      = "first_name"
	FieldMiddleInitial  = "middle_initial"
	FieldLastName       = "last_name"
	FieldLastFourDigits = "last_four_digits"
	FieldZipCode        = "zip_code"
)

// VerificationSession is the wizard's working record for one onboarding run.
// It lives in redis while active; completed steps are upserted to postgres.
type VerificationSession struct {
	ID             string              `json:"id"`
	AccountID      string              `json:"account_id"`
	Step           WizardStep          `json:"step"`
	FirstName      string              `json:"first_name"`
	MiddleInitial  string              `json:"middle_initial"`
	LastName       string              `json:"last_name"`
	LastFourDigits string              `json:"last_four_digits"`
	ZipCode        string              `json:"zip_code"`
	HumanVoice     bool                `json:"human_voice"`
	MatchingVoice  bool                `json:"matching_voice"`
	MatchingFace   bool                `json:"matching_face"`
	Validity       map[string]Validity `json:"validity"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func NewVerificationSession(id, accountID string, now time.Time) VerificationSession {
	return VerificationSession{
		ID:        id,
		AccountID: accountID,
		Step:      StepPersonal,
		Validity: map[string]Validity{
			FieldFirstName:      ValidityUnknown,
			FieldMiddleInitial:  ValidityUnknown,
			FieldLastName:       ValidityUnknown,
			FieldLastFourDigits: ValidityUnknown,
			FieldZipCode:        ValidityUnknown,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot is the verification_update payload: the full state, never a diff.
// Dashboards fully replace their displayed state with each one.
type Snapshot struct {
	SessionID      string `json:"session_id"`
	FirstName      bool   `json:"first_name"`
	MiddleInitial  bool   `json:"middle_initial"`
	LastName       bool   `json:"last_name"`
	LastFourDigits bool   `json:"last_four_digits"`
	ZipCode        bool   `json:"zip_code"`
	HumanVoice     bool   `json:"human_voice"`
	MatchingVoice  bool   `json:"matching_voice"`
	MatchingFace   bool   `json:"matching_face"`
}

// SnapshotFieldCount is the denominator of the dashboard completion
// percentage.
const SnapshotFieldCount = 8

func (s VerificationSession) Snapshot() Snapshot {
	return Snapshot{
		SessionID:      s.ID,
		FirstName:      s.Validity[FieldFirstName] == ValidityValid,
		MiddleInitial:  s.Validity[FieldMiddleInitial] == ValidityValid,
		LastName:       s.Validity[FieldLastName] == ValidityValid,
		LastFourDigits: s.Validity[FieldLastFourDigits] == ValidityValid,
		ZipCode:        s.Validity[FieldZipCode] == ValidityValid,
		HumanVoice:     s.HumanVoice,
		MatchingVoice:  s.MatchingVoice,
		MatchingFace:   s.MatchingFace,
	}
}

// TrueFieldCount counts the verified fields for the completion percentage.
func (s Snapshot) TrueFieldCount() int {
	count := 0
	for _, v := range []bool{
		s.FirstName, s.MiddleInitial, s.LastName, s.LastFourDigits,
		s.ZipCode, s.HumanVoice, s.MatchingVoice, s.MatchingFace,
	} {
		if v {
			count++
		}
	}
	return count
}

// VerificationRecord is the persisted, dashboard-facing form of a session.
type VerificationRecord struct {
	SessionID      string    `db:"session_id"`
	AccountID      string    `db:"account_id"`
	FirstName      string    `db:"first_name"`
	MiddleInitial  string    `db:"middle_initial"`
	LastName       string    `db:"last_name"`
	LastFourDigits string    `db:"last_four_digits"`
	ZipCode        string    `db:"zip_code"`
	HumanVoice     bool      `db:"human_voice"`
	MatchingVoice  bool      `db:"matching_voice"`
	MatchingFace   bool      `db:"matching_face"`
	Completed      bool      `db:"completed"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Snapshot rebuilds the broadcast form from a persisted record. Field values
// are only ever persisted once their step validated, so presence means valid.
func (r VerificationRecord) Snapshot() Snapshot {
	return Snapshot{
		SessionID:      r.SessionID,
		FirstName:      r.FirstName != "",
		MiddleInitial:  r.MiddleInitial != "",
		LastName:       r.LastName != "",
		LastFourDigits: r.LastFourDigits != "",
		ZipCode:        r.ZipCode != "",
		HumanVoice:     r.HumanVoice,
		MatchingVoice:  r.MatchingVoice,
		MatchingFace:   r.MatchingFace,
	}
}

// CaptureSample is a transient media artifact staged for scoring and deleted
// afterwards. StorageURL points at the staging object while it exists.
type CaptureSample struct {
	SessionID  string
	Kind       string
	StorageURL string
	CapturedAt time.Time
}

// VoiceScore is the external voice service's verdict.
type VoiceScore struct {
	IsHuman bool `json:"is_human"`
	IsMatch bool `json:"is_match"`
}
