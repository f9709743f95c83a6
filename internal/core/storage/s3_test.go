package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestScreenshotKey(t *testing.T) {
	runID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	key := ScreenshotKey(runID, "after-login")

	assert.Equal(t, "screenshots/6ba7b810-9dad-11d1-80b4-00c04fd430c8/after-login.png", key)
}
