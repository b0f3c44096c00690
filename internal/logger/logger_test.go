package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/logger"
)

func TestNew(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = logger.New(logger.Config{})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))

	_, err = logger.New(logger.Config{Level: "loud"})
	assert.Error(t, err)
}
