package authService

import (
	"VerifID/internal/entity"
	"unicode"
)

func MakeAccountData(account entity.Account) map[string]interface{} {
	return map[string]interface{}{
		"id":         account.ID,
		"identifier": account.Identifier,
		"role":       string(account.Role),
	}
}

func isAllDigits(value string, length int) bool {
	if len(value) != length {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Admin secrets need at least 8 characters, one uppercase letter and one symbol.
func isStrongSecret(value string) bool {
	if len(value) < 8 {
		return false
	}

	var hasUpper, hasSymbol bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	return hasUpper && hasSymbol
}
