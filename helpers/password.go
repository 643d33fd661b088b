package helpers

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidInput is returned when sign up data is malformed
var ErrInvalidInput = errors.New("invalid input")

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\p{L}0-9_]{3,20}$`)
)

// ValidateCredentials checks sign up data
func ValidateCredentials(email, username, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateUsername(username); err != nil {
		return err
	}
	// bcrypt ignores anything past 72 bytes
	if len(password) < 6 || len(password) > 72 {
		return fmt.Errorf("%w: password must be 6-72 characters", ErrInvalidInput)
	}
	return nil
}

// ValidateEmail checks the email format and length
func ValidateEmail(email string) error {
	if len(email) < 5 || len(email) > 254 || !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return nil
}

// ValidateUsername checks username format: 3-20 letters, digits or underscores
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: username must be 3-20 letters, numbers or underscores", ErrInvalidInput)
	}
	return nil
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash compares a bcrypt hash with a password
func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
