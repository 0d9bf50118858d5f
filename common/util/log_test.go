// +build unit

package util

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevelConfig(t *testing.T) {
	assert := assert.New(t)

	ret := parseLogLevelConfig("*:error,hid:debug,descriptor:info")
	assert.Equal(3, len(ret))
	assert.Equal("error", ret["*"])
	assert.Equal("debug", ret["hid"])
	assert.Equal("info", ret["descriptor"])

	// Should set default level.
	ret2 := parseLogLevelConfig("hid:debug,descriptor:info")
	assert.Equal(3, len(ret2))
	assert.Equal("warn", ret2["*"])
	assert.Equal("debug", ret2["hid"])
	assert.Equal("info", ret2["descriptor"])
}

func TestSelfIDHook(t *testing.T) {
	assert := assert.New(t)

	hook := &selfIDHook{id: 42}
	entry := log.NewEntry(log.New())

	assert.Nil(hook.Fire(entry))
	assert.Equal(42, entry.Data["self"])
}

func TestGetLoggerForModule(t *testing.T) {
	assert := assert.New(t)

	logLevels = parseLogLevelConfig("*:error,hid:debug,descriptor:info")

	assert.Equal(log.DebugLevel, GetLoggerForModule("hid").Logger.Level)
	assert.Equal(log.InfoLevel, GetLoggerForModule("descriptor").Logger.Level)
	assert.Equal(log.ErrorLevel, GetLoggerForModule("hdkey").Logger.Level)
}
