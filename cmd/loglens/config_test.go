package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, true, coerceValue("true"))
	assert.Equal(t, false, coerceValue("false"))
	assert.Equal(t, 8081, coerceValue("8081"))
	assert.Equal(t, 1.5, coerceValue("1.5"))
	assert.Equal(t, "10s", coerceValue("10s"))
	assert.Equal(t, "127.0.0.1", coerceValue("127.0.0.1"))
}

func TestSortedKeys(t *testing.T) {
	keys := sortedKeys(map[string]string{
		"backend":  "/a",
		"apps":     "/b",
		"services": "/c",
	})
	assert.Equal(t, []string{"apps", "backend", "services"}, keys)
}
