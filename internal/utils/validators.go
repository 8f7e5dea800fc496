package utils

import (
	"unicode"
)

func containsSpecialCharacter(value string) bool {
	for _, r := range value {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}

func containsUppercaseLetter(value string) bool {
	for _, r := range value {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func containsLowercaseLetter(value string) bool {
	for _, r := range value {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func containsNumber(value string) bool {
	for _, r := range value {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ValidatePassword enforces the signup password rules: at least 8 characters
// with an uppercase letter, a lowercase letter, a digit and a special
// character. Returns a message suitable for the form, empty when valid.
func ValidatePassword(password string) string {
	if len(password) < 8 ||
		!containsUppercaseLetter(password) ||
		!containsLowercaseLetter(password) ||
		!containsNumber(password) ||
		!containsSpecialCharacter(password) {
		return "Password must be at least 8 characters long and include uppercase letters, lowercase letters, numbers, and special characters."
	}
	return ""
}

// ValidateNoSpecialCharacters rejects punctuation and symbols, used for
// nickname input. Returns a message suitable for the form, empty when valid.
func ValidateNoSpecialCharacters(value string) string {
	if containsSpecialCharacter(value) {
		return "Special characters are not allowed."
	}
	return ""
}
