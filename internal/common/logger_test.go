package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger(t *testing.T) {
	logger := GetLogger()
	require.NotNil(t, logger)

	assert.Equal(t, logger, GetLogger(), "repeat calls return the same logger")
}

func TestInitLogger(t *testing.T) {
	config := &Config{
		Logging: LoggingConfig{
			Level:  "debug",
			Output: []string{"stdout"},
		},
	}

	logger := InitLogger(config)

	require.NotNil(t, logger)
	assert.Equal(t, logger, GetLogger(), "InitLogger replaces the global logger")

	logger.Debug().Str("check", "console").Msg("logger accepts structured fields")
}
