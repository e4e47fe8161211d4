package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPassesWhenNotRequired(t *testing.T) {
	c := NewChecker(false, nil)
	assert.True(t, c.Check(""))
	assert.True(t, c.Check("anything"))
}

func TestCheckAcceptsConfiguredKey(t *testing.T) {
	c := NewChecker(true, []string{"secret-key"})
	assert.True(t, c.Check("Bearer secret-key"))
}

func TestCheckRejectsWrongKey(t *testing.T) {
	c := NewChecker(true, []string{"secret-key"})
	assert.False(t, c.Check("Bearer wrong-key"))
}

func TestCheckRejectsMissingBearerPrefix(t *testing.T) {
	c := NewChecker(true, []string{"secret-key"})
	assert.False(t, c.Check("secret-key"))
}

func TestCheckRejectsEmptyHeader(t *testing.T) {
	c := NewChecker(true, []string{"secret-key"})
	assert.False(t, c.Check(""))
}

func TestNewCheckerGeneratesEphemeralKeyWhenRequiredAndEmpty(t *testing.T) {
	c := NewChecker(true, nil)
	assert.True(t, c.Required())
	assert.Len(t, c.keys, 1)
}

func TestNewCheckerIgnoresBlankConfiguredKeys(t *testing.T) {
	c := NewChecker(true, []string{"", "   ", "real-key"})
	assert.True(t, c.Check("Bearer real-key"))
	assert.Len(t, c.keys, 1)
}
