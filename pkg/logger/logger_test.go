package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.warn)
	assert.NotNil(t, logger.error)
}

func TestLevels(t *testing.T) {
	logger := New()

	// Levels must not panic, with or without format args.
	logger.Info("started")
	logger.Info("feed: %d posts, %d comments", 3, 7)
	logger.Warn("news fetch failed: %s", "timeout")
	logger.Error("store unreachable: %v", "dial tcp")
}
