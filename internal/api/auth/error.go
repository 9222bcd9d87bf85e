package auth

import (
	"VerifID/pkg/response"
	"net/http"
)

var (
	ErrUserNotFound            = response.NewError(http.StatusBadRequest, "user not found")
	ErrNotAdmin                = response.NewError(http.StatusForbidden, "access denied, not an admin")
	ErrWrongPassword           = response.NewError(http.StatusUnauthorized, "incorrect password")
	ErrInvalidCredentials      = response.NewError(http.StatusUnauthorized, "phone number or access code is wrong")
	ErrIdentifierAlreadyExists = response.NewError(http.StatusConflict, "identifier already exists")
	ErrInvalidIdentifier       = response.NewError(http.StatusBadRequest, "identifier format is invalid for role")
	ErrInvalidSecret           = response.NewError(http.StatusBadRequest, "secret format is invalid for role")
)
