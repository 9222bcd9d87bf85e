package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
)

type ItfSmtp interface {
	SendVerificationComplete(adminEmail string, sessionID string) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	auth := smtpPkg.PlainAuth("", mail, password, "smtp.gmail.com")

	return &smtp{auth: auth, mail: mail}
}

func (s *smtp) SendVerificationComplete(adminEmail string, sessionID string) error {
	to := []string{adminEmail}

	message := []byte(fmt.Sprintf("To: %s\r\nSubject: Verification completed\r\n\r\nVerification session %s has passed all checks.",
		adminEmail, sessionID))

	err := smtpPkg.SendMail("smtp.gmail.com:587", s.auth, s.mail, to, message)
	if err != nil {
		return err
	}

	return nil
}
