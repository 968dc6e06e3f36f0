package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is bcrypt's work factor: 2^12 rounds, roughly 250ms per hash
// on current hardware. Slow enough to hurt brute force, fast enough for a
// login request.
const defaultCost = 12

// ErrInvalidPassword is returned by Verify for a wrong password or a hash
// that cannot be parsed.
var ErrInvalidPassword = errors.New("auth: invalid password")

// PasswordService hashes and checks admin passwords with bcrypt.
type PasswordService struct {
	cost int
}

func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest uses a low cost so tests stay fast. Never use
// it outside tests.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns a salted bcrypt hash. bcrypt only reads the first 72 bytes,
// so longer passwords are rejected instead of silently truncated.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify returns nil when plaintext matches hash. The comparison is
// constant-time. Mismatches and malformed hashes both return
// ErrInvalidPassword.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}
	return fmt.Errorf("%w: %v", ErrInvalidPassword, err)
}

// Matches is Verify as a bool.
func (p *PasswordService) Matches(hash, plaintext string) bool {
	return p.Verify(hash, plaintext) == nil
}
