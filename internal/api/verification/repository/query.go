package verificationRepository

const (
	queryUpsertRecord = `
INSERT INTO Verification_Records (session_id, account_id, first_name, middle_initial, last_name,
                                  last_four_digits, zip_code, human_voice, matching_voice,
                                  matching_face, completed, created_at, updated_at)
VALUES (:session_id, :account_id, :first_name, :middle_initial, :last_name,
        :last_four_digits, :zip_code, :human_voice, :matching_voice,
        :matching_face, :completed, :created_at, :updated_at)
ON CONFLICT (session_id) DO UPDATE
SET first_name       = EXCLUDED.first_name,
    middle_initial   = EXCLUDED.middle_initial,
    last_name        = EXCLUDED.last_name,
    last_four_digits = EXCLUDED.last_four_digits,
    zip_code         = EXCLUDED.zip_code,
    human_voice      = EXCLUDED.human_voice,
    matching_voice   = EXCLUDED.matching_voice,
    matching_face    = EXCLUDED.matching_face,
    completed        = EXCLUDED.completed,
    updated_at       = EXCLUDED.updated_at`

	queryGetBySessionID = `
SELECT session_id, account_id, first_name, middle_initial, last_name, last_four_digits,
       zip_code, human_voice, matching_voice, matching_face, completed, created_at, updated_at
FROM Verification_Records
    WHERE session_id = :session_id`

	queryGetLatest = `
SELECT session_id, account_id, first_name, middle_initial, last_name, last_four_digits,
       zip_code, human_voice, matching_voice, matching_face, completed, created_at, updated_at
FROM Verification_Records
ORDER BY updated_at DESC
LIMIT 1`
)
