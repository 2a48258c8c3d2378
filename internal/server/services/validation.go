// Package services contains server-side business logic: authentication and
// token issuance, the product catalog, carts, orders, and vendor rankings.
package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// ValidationError names one violated registration rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates rule violations so the caller can report all
// of them at once.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// validatePassword checks the configured complexity policy: minimum length
// and, when required, at least one uppercase letter, one lowercase letter,
// and one digit.
func validatePassword(password string, minLength int, requireClasses bool) []ValidationError {
	var violations []ValidationError

	if len(password) < minLength {
		violations = append(violations, ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters long", minLength),
		})
	}

	if requireClasses {
		var hasUpper, hasLower, hasDigit bool
		for _, ch := range password {
			switch {
			case unicode.IsUpper(ch):
				hasUpper = true
			case unicode.IsLower(ch):
				hasLower = true
			case unicode.IsDigit(ch):
				hasDigit = true
			}
		}
		if !hasUpper {
			violations = append(violations, ValidationError{Field: "password", Message: "must contain an uppercase letter"})
		}
		if !hasLower {
			violations = append(violations, ValidationError{Field: "password", Message: "must contain a lowercase letter"})
		}
		if !hasDigit {
			violations = append(violations, ValidationError{Field: "password", Message: "must contain a digit"})
		}
	}

	return violations
}

func validateEmail(email string) []ValidationError {
	if _, err := mail.ParseAddress(email); err != nil {
		return []ValidationError{{Field: "email", Message: "must be a valid email address"}}
	}
	return nil
}
