package biometric

type VoiceVerifyResponse struct {
	SessionID string `json:"session_id"`
	IsHuman   bool   `json:"is_human"`
	IsMatch   bool   `json:"is_match"`
}

type FaceVerifyResponse struct {
	SessionID string  `json:"session_id"`
	Match     bool    `json:"match"`
	Distance  float64 `json:"distance"`
}
