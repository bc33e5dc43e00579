package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// ValidatePasswordStrength checks the minimum complexity required for
// self-registered accounts. Returns the list of unmet requirements.
func ValidatePasswordStrength(password string) []string {
	var problems []string
	if len(password) < 8 {
		problems = append(problems, "password must be at least 8 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("!@#$%^&*()_+-=[]{};':\"\\|,.<>/?", r):
			special = true
		}
	}
	if !upper {
		problems = append(problems, "password must contain at least one uppercase letter")
	}
	if !lower {
		problems = append(problems, "password must contain at least one lowercase letter")
	}
	if !digit {
		problems = append(problems, "password must contain at least one number")
	}
	if !special {
		problems = append(problems, "password must contain at least one special character")
	}
	return problems
}
