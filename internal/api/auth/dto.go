package auth

import "VerifID/internal/entity"

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type IndividualLoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone10"`
	AccessCode  string `json:"access_code" validate:"required,digits5"`
}

type AccountData struct {
	ID         string             `json:"id"`
	Identifier string             `json:"identifier"`
	Role       entity.AccountRole `json:"role"`
}

type TokenData struct {
	AccessToken      string  `json:"access_token"`
	ExpiresInMinutes float64 `json:"expires_in_minutes"`
}

type AdminLoginResponse struct {
	Message string      `json:"message"`
	User    AccountData `json:"user"`
	Token   TokenData   `json:"token"`
}

type LoginResponse struct {
	AccessToken      string  `json:"access_token"`
	ExpiresInMinutes float64 `json:"expires_in_minutes"`
}

type CreateAccountRequest struct {
	Identifier string             `json:"identifier" validate:"required"`
	Secret     string             `json:"secret" validate:"required"`
	Role       entity.AccountRole `json:"role" validate:"required"`
}
