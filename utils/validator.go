// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted for accounts.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt hashes.
const MaxPasswordBytes = 72

// PasswordTooLong reports whether password exceeds what bcrypt accepts.
func PasswordTooLong(password string) bool {
	return len(password) > MaxPasswordBytes
}

const longPasswordMessage = "Parola este prea lungă (cel mult 72 de octeți)"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// LooksLikeEmail is the relaxed check used by the password recovery form.
func LooksLikeEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len([]rune(password)) < MinPasswordLength {
		return false, "Parola trebuie să aibă cel puțin 8 caractere"
	}
	if PasswordTooLong(password) {
		return false, longPasswordMessage
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return false, "Parola trebuie să conțină litere mari, litere mici, cifre și un caracter special"
	}

	return true, ""
}

// RegisterValidations adds the custom tags used by the form models.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		ok, _ := ValidatePassword(fl.Field().String())
		return ok
	})
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
