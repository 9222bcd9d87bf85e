package bcrypt

import "golang.org/x/crypto/bcrypt"

// IBcrypt hashes account secrets at rest. The same hasher covers both
// shapes of secret: 5-digit access codes for individuals and strong
// passwords for admins. Plaintext never leaves the auth service.
type IBcrypt interface {
	HashPassword(secret string) (string, error)
	ComparePassword(hashedSecret string, secret string) error
}

type bcryptService struct {
	cost int
}

func New() IBcrypt {
	return &bcryptService{
		cost: bcrypt.DefaultCost,
	}
}

// NewWithCost is for tests, where the default cost is needlessly slow.
func NewWithCost(cost int) IBcrypt {
	return &bcryptService{
		cost: cost,
	}
}

func (b *bcryptService) HashPassword(secret string) (string, error) {
	result, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func (b *bcryptService) ComparePassword(hashedSecret string, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(secret))
}
