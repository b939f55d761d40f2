package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueEmails(t *testing.T) {
	in := []string{"careers@example.com", "jobs@example.com", "careers@example.com"}
	assert.Equal(t, []string{"careers@example.com", "jobs@example.com"}, UniqueEmails(in))
	assert.Empty(t, UniqueEmails(nil))
}
