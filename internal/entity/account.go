package entity

import "time"

type AccountRole string

const (
	RoleIndividual AccountRole = "individual"
	RoleAdmin      AccountRole = "admin"
)

// Account is a credential holder. Identifier and secret formats are
// conditional on role: individuals use a 10-digit phone number and a 5-digit
// access code, admins use a free-form unique name and a strong password.
// Secrets are stored bcrypt-hashed.
type Account struct {
	ID         string      `db:"id"`
	Identifier string      `db:"identifier"`
	Secret     string      `db:"secret"`
	Role       AccountRole `db:"role"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

type AccountLoginData struct {
	ID         string
	Identifier string
	Role       AccountRole
}
