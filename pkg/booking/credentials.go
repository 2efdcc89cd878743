package booking

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier compares a stored password hash against a candidate
// password. Implementations are stateless.
type CredentialVerifier interface {
	Compare(passwordHash string, password string) error
}

// BcryptVerifier is the default CredentialVerifier, backed by bcrypt.
type BcryptVerifier struct{}

// Compare returns nil when password matches passwordHash.
func (BcryptVerifier) Compare(passwordHash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
}

// HashPassword produces a salted bcrypt hash for seeding admin credentials.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
