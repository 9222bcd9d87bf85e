package authRepository

const (
	queryCreateAccount = `
INSERT INTO Accounts (id, identifier, secret, role, created_at)
VALUES (:id, :identifier, :secret, :role, :created_at)`

	queryGetByID = `
SELECT id, identifier, secret, role, created_at, updated_at
FROM Accounts
    WHERE id = :id`

	queryGetByIdentifier = `
SELECT id, identifier, secret, role, created_at, updated_at
FROM Accounts
    WHERE identifier = :identifier`

	queryDeleteAccount = `
DELETE FROM Accounts
WHERE id = :id`
)
