package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	Init()
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	SetLevel("debug")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	SetLevel("not-a-level")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}
