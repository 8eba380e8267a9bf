package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateProgress(t *testing.T) {
	assert.Equal(t, 0, calculateProgress(5, 0))
	assert.Equal(t, 0, calculateProgress(5, -10))
	assert.Equal(t, 0, calculateProgress(0, 100))
	assert.Equal(t, 50, calculateProgress(50, 100))
	assert.Equal(t, 33, calculateProgress(1, 3))
	assert.Equal(t, 100, calculateProgress(100, 100))
	assert.Equal(t, 100, calculateProgress(150, 100))
	assert.Equal(t, 0, calculateProgress(-20, 100))
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, "not-started", deriveStatus(0))
	assert.Equal(t, "in-progress", deriveStatus(1))
	assert.Equal(t, "in-progress", deriveStatus(99))
	assert.Equal(t, "completed", deriveStatus(100))
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate(nil)
	assert.NoError(t, err)
	assert.Nil(t, d)

	empty := ""
	d, err = parseOptionalDate(&empty)
	assert.NoError(t, err)
	assert.Nil(t, d)

	valid := "2025-03-10"
	d, err = parseOptionalDate(&valid)
	assert.NoError(t, err)
	assert.NotNil(t, d)

	bad := "10/03/2025"
	_, err = parseOptionalDate(&bad)
	assert.Error(t, err)
}
