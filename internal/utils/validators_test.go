package utils

import (
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Str0ng!pass", true},
		{"Another#1GoodOne", true},
		{"short1!A", true},          // exactly 8
		{"Sh0rt!", false},           // too short
		{"alllowercase1!", false},   // no uppercase
		{"ALLUPPERCASE1!", false},   // no lowercase
		{"NoDigitsHere!", false},    // no number
		{"NoSpecials123A", false},   // no special character
		{"", false},
	}

	for _, tt := range tests {
		msg := ValidatePassword(tt.password)
		if tt.valid && msg != "" {
			t.Errorf("ValidatePassword(%q) = %q, want valid", tt.password, msg)
		}
		if !tt.valid && msg == "" {
			t.Errorf("ValidatePassword(%q) accepted, want rejection", tt.password)
		}
	}
}

func TestValidateNoSpecialCharacters(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"plainnickname", true},
		{"Nick123", true},
		{"", true},
		{"nick!name", false},
		{"dot.ted", false},
		{"has space+plus", false},
	}

	for _, tt := range tests {
		msg := ValidateNoSpecialCharacters(tt.value)
		if tt.valid && msg != "" {
			t.Errorf("ValidateNoSpecialCharacters(%q) = %q, want valid", tt.value, msg)
		}
		if !tt.valid && msg == "" {
			t.Errorf("ValidateNoSpecialCharacters(%q) accepted, want rejection", tt.value)
		}
	}
}
