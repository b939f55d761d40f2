package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSubject(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Re: Application for Backend Engineer", "Application for Backend Engineer"},
		{"RE: Fwd: Application", "Application"},
		{"re[2]: thread", "thread"},
		{"  Fw: spaced  ", "spaced"},
		{"Regarding your offer", "Regarding your offer"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeSubject(tt.input), tt.input)
	}
}

func TestNormalizeMessageID(t *testing.T) {
	assert.Equal(t, "abc@mail.example.com", NormalizeMessageID("<abc@mail.example.com>"))
	assert.Equal(t, "abc@mail.example.com", NormalizeMessageID(" abc@mail.example.com "))
	assert.Equal(t, "", NormalizeMessageID(""))
}

func TestGuessNameFromAddress(t *testing.T) {
	tests := []struct {
		displayName string
		address     string
		first       string
		last        string
	}{
		{"Jane Doe", "jane@example.com", "Jane", "Doe"},
		{"Jane Anne van Doe", "jane@example.com", "Jane", "Anne van Doe"},
		{"", "jane.doe@example.com", "jane", "doe"},
		{"", "jdoe@example.com", "jdoe", ""},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		first, last := GuessNameFromAddress(tt.displayName, tt.address)
		assert.Equal(t, tt.first, first)
		assert.Equal(t, tt.last, last)
	}
}
