package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetMode(t *testing.T) {
	defer SetMode("release")

	SetMode("debug")
	assert.Equal(t, zap.DebugLevel, Level())

	SetMode("release")
	assert.Equal(t, zap.InfoLevel, Level())
}

func TestUseTestLogger(t *testing.T) {
	logs, restore := UseTestLogger()
	defer restore()

	Log.Info("survey saved", zap.Uint("survey_id", 7))

	entries := logs.FilterMessage("survey saved").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, uint64(7), entries[0].ContextMap()["survey_id"])
	}
}
