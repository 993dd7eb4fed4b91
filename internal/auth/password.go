package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func ComparePassword(hash, password string) error {
	if hash == "" || password == "" {
		return errors.New("missing hash or password")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Secret is the single admin secret. It is either the plain configured value,
// compared verbatim, or a bcrypt hash of it.
type Secret struct {
	plain string
	hash  string
}

func NewSecret(plain, hash string) *Secret {
	return &Secret{plain: plain, hash: hash}
}

func (s *Secret) Configured() bool {
	return s != nil && (s.plain != "" || s.hash != "")
}

func (s *Secret) Verify(candidate string) bool {
	if !s.Configured() || candidate == "" {
		return false
	}
	if s.hash != "" {
		return ComparePassword(s.hash, candidate) == nil
	}
	return candidate == s.plain
}
